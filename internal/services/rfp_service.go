// internal/services/rfp_service.go
package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/procureflow/rfp-backend/internal/apperrors"
	"github.com/procureflow/rfp-backend/internal/models"
	"github.com/procureflow/rfp-backend/internal/store"
	"github.com/procureflow/rfp-backend/internal/utils"
)

// RFPService owns the RFP lifecycle: creation, editing, status transitions,
// listings and search. Every operation is authorized against the caller's
// identity and role before touching the store.
type RFPService struct {
	store         store.Store
	storage       *StorageService
	notifications *NotificationService
	logger        *logrus.Logger

	// Statuses a supplier is allowed to browse. Defaults to the open
	// statuses (Published, Response Submitted).
	supplierVisible []models.RFPStatus
}

type CreateRFPRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=100"`
	Description string `json:"description" validate:"required,max=5000"`
}

type UpdateRFPRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=5,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

type TransitionRFPRequest struct {
	Status models.RFPStatus `json:"status" validate:"required"`
}

func NewRFPService(st store.Store, storage *StorageService, notifications *NotificationService, logger *logrus.Logger) *RFPService {
	return &RFPService{
		store:           st,
		storage:         storage,
		notifications:   notifications,
		logger:          logger,
		supplierVisible: models.SupplierVisibleStatuses(),
	}
}

func (s *RFPService) Create(ctx context.Context, buyer *models.User, req *CreateRFPRequest) (*models.RFP, error) {
	if buyer.Role != models.RoleBuyer {
		return nil, fmt.Errorf("%w: only buyers can create RFPs", apperrors.ErrForbidden)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	rfp := &models.RFP{
		BuyerID:     buyer.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.RFPStatusDraft,
		Version:     1,
	}

	if err := s.store.CreateRFP(ctx, rfp); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"rfp_id":   rfp.ID,
		"buyer_id": buyer.ID,
	}).Info("RFP created")

	return rfp, nil
}

func (s *RFPService) Update(ctx context.Context, user *models.User, rfpID uuid.UUID, req *UpdateRFPRequest) (*models.RFP, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	rfp, err := s.getOwnedRFP(ctx, user, rfpID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		rfp.Title = *req.Title
	}
	if req.Description != nil {
		rfp.Description = *req.Description
	}

	// Content-only write; a status transition racing this update is preserved.
	if err := s.store.UpdateRFPDetails(ctx, rfp.ID, rfp.Title, rfp.Description, rfp.DocumentURL); err != nil {
		return nil, err
	}

	return s.store.GetRFP(ctx, rfp.ID)
}

// Transition moves an RFP to a new lifecycle status. The update is guarded
// by the RFP version so that two concurrent transitions cannot both win.
// Publishing notifies every registered supplier asynchronously.
func (s *RFPService) Transition(ctx context.Context, user *models.User, rfpID uuid.UUID, req *TransitionRFPRequest) (*models.RFP, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, req.Status)
	}

	rfp, err := s.getOwnedRFP(ctx, user, rfpID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateRFPStatusVersioned(ctx, rfp.ID, req.Status, rfp.Version); err != nil {
		return nil, err
	}

	if req.Status == models.RFPStatusPublished && rfp.Status != models.RFPStatusPublished {
		go s.notifySuppliers(rfp)
	}

	s.logger.WithFields(logrus.Fields{
		"rfp_id": rfp.ID,
		"from":   rfp.Status,
		"to":     req.Status,
	}).Info("RFP status changed")

	return s.store.GetRFP(ctx, rfp.ID)
}

// Delete removes an RFP permanently. Only drafts can be deleted; anything
// later in the lifecycle may already have supplier responses attached.
func (s *RFPService) Delete(ctx context.Context, user *models.User, rfpID uuid.UUID) error {
	rfp, err := s.getOwnedRFP(ctx, user, rfpID)
	if err != nil {
		return err
	}

	if rfp.Status != models.RFPStatusDraft {
		return fmt.Errorf("%w: only draft RFPs can be deleted", apperrors.ErrConflict)
	}

	return s.store.DeleteRFP(ctx, rfp.ID)
}

// List returns the RFPs the caller is entitled to see: buyers get their own
// RFPs in every status, suppliers get the open ones.
func (s *RFPService) List(ctx context.Context, user *models.User, params utils.PaginationParams) (utils.PaginationResult, error) {
	offset := (params.Page - 1) * params.Limit

	var (
		rfps  []models.RFP
		total int64
		err   error
	)
	switch user.Role {
	case models.RoleBuyer:
		rfps, total, err = s.store.ListRFPsByBuyer(ctx, user.ID, params.Limit, offset)
	case models.RoleSupplier:
		rfps, total, err = s.store.ListRFPsByStatuses(ctx, s.supplierVisible, params.Limit, offset)
	default:
		// Unknown roles see nothing.
		rfps = []models.RFP{}
	}
	if err != nil {
		return utils.PaginationResult{}, err
	}

	return utils.CreatePaginationResult(rfps, total, params), nil
}

func (s *RFPService) Get(ctx context.Context, user *models.User, rfpID uuid.UUID) (*models.RFP, error) {
	rfp, err := s.store.GetRFP(ctx, rfpID)
	if err != nil {
		return nil, err
	}

	if user.Role == models.RoleBuyer {
		if rfp.BuyerID != user.ID {
			return nil, fmt.Errorf("%w: not your RFP", apperrors.ErrForbidden)
		}
		return rfp, nil
	}

	// Suppliers see open RFPs, plus any RFP they already responded to, so an
	// advanced or withdrawn RFP stays reachable for its participants.
	for _, status := range s.supplierVisible {
		if rfp.Status == status {
			return rfp, nil
		}
	}

	engaged, err := s.store.SupplierHasResponse(ctx, rfpID, user.ID)
	if err != nil {
		return nil, err
	}
	if engaged {
		return rfp, nil
	}
	return nil, fmt.Errorf("%w: rfp %s", apperrors.ErrNotFound, rfpID)
}

// Search runs a full-text query over published RFPs, ranked by relevance.
func (s *RFPService) Search(ctx context.Context, query string) ([]models.RFP, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrValidation)
	}
	return s.store.SearchPublishedRFPs(ctx, query)
}

// UploadDocument stores a supporting document for the RFP and records its URL.
func (s *RFPService) UploadDocument(ctx context.Context, user *models.User, rfpID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*models.RFP, error) {
	rfp, err := s.getOwnedRFP(ctx, user, rfpID)
	if err != nil {
		return nil, err
	}

	result, err := s.storage.UploadFile(ctx, file, header, s.storage.GetDefaultUploadOptions("rfp_documents"))
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateRFPDetails(ctx, rfp.ID, rfp.Title, rfp.Description, result.URL); err != nil {
		return nil, err
	}

	return s.store.GetRFP(ctx, rfp.ID)
}

func (s *RFPService) getOwnedRFP(ctx context.Context, user *models.User, rfpID uuid.UUID) (*models.RFP, error) {
	if user.Role != models.RoleBuyer {
		return nil, fmt.Errorf("%w: only buyers can manage RFPs", apperrors.ErrForbidden)
	}

	rfp, err := s.store.GetRFP(ctx, rfpID)
	if err != nil {
		return nil, err
	}

	if rfp.BuyerID != user.ID {
		return nil, fmt.Errorf("%w: not your RFP", apperrors.ErrForbidden)
	}

	return rfp, nil
}

func (s *RFPService) notifySuppliers(rfp *models.RFP) {
	suppliers, err := s.store.ListUsersByRole(context.Background(), models.RoleSupplier)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load suppliers for RFP notification")
		return
	}

	s.notifications.SendRFPPublishedNotification(rfp, suppliers)
}
