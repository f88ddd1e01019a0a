// internal/services/response_service.go
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

// ResponseService owns supplier responses: submission, listings and the
// buyer's approve/reject decision with its cascade.
type ResponseService struct {
	store         store.Store
	storage       *StorageService
	notifications *NotificationService
	logger        *logrus.Logger
}

type SubmitResponseRequest struct {
	ResponseText string `json:"response_text" validate:"required,max=5000"`
}

type DecideResponseRequest struct {
	Status models.ResponseStatus `json:"status" validate:"required"`
}

func NewResponseService(st store.Store, storage *StorageService, notifications *NotificationService, logger *logrus.Logger) *ResponseService {
	return &ResponseService{
		store:         st,
		storage:       storage,
		notifications: notifications,
		logger:        logger,
	}
}

// Submit records a supplier's response to an open RFP. The optional document
// is uploaded before anything is written, so a storage failure leaves no
// partial state behind. The first submission moves a Published RFP to
// Response Submitted inside the same transaction.
func (s *ResponseService) Submit(ctx context.Context, supplier *models.User, rfpID uuid.UUID, req *SubmitResponseRequest, file multipart.File, header *multipart.FileHeader) (*models.Response, error) {
	if supplier.Role != models.RoleSupplier {
		return nil, fmt.Errorf("%w: only suppliers can submit responses", apperrors.ErrForbidden)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	rfp, err := s.store.GetRFP(ctx, rfpID)
	if err != nil {
		return nil, err
	}

	if !submittable(rfp.Status) {
		return nil, fmt.Errorf("%w: rfp is not accepting responses in status %q", apperrors.ErrConflict, rfp.Status)
	}

	exists, err := s.store.SupplierHasResponse(ctx, rfpID, supplier.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: you have already responded to this RFP", apperrors.ErrConflict)
	}

	// Upload the document before the transaction so a slow or failing
	// storage backend cannot hold a database transaction open.
	documentURL := ""
	if file != nil && header != nil {
		result, err := s.storage.UploadFile(ctx, file, header, s.storage.GetDefaultUploadOptions("response_documents"))
		if err != nil {
			return nil, err
		}
		documentURL = result.URL
	}

	response := &models.Response{
		RFPID:        rfpID,
		SupplierID:   supplier.ID,
		ResponseText: req.ResponseText,
		DocumentURL:  documentURL,
		Status:       models.ResponseStatusSubmitted,
	}

	err = s.store.WithTransaction(ctx, func(tx store.Store) error {
		// Re-read under the transaction; the RFP may have moved since the
		// pre-check above.
		current, err := tx.GetRFP(ctx, rfpID)
		if err != nil {
			return err
		}
		if !submittable(current.Status) {
			return fmt.Errorf("%w: rfp is not accepting responses in status %q", apperrors.ErrConflict, current.Status)
		}

		if err := tx.CreateResponse(ctx, response); err != nil {
			return err
		}

		// Every submission bumps the RFP version, even when the status stays
		// Response Submitted, so a decision cascade racing this submit fails
		// its compare-and-set instead of missing the new response.
		next := current.Status
		if current.Status == models.RFPStatusPublished {
			next = models.RFPStatusResponseSubmitted
		}
		return tx.UpdateRFPStatusVersioned(ctx, rfpID, next, current.Version)
	})
	if err != nil {
		return nil, err
	}

	go s.notifyBuyer(rfp, supplier)

	s.logger.WithFields(logrus.Fields{
		"response_id": response.ID,
		"rfp_id":      rfpID,
		"supplier_id": supplier.ID,
	}).Info("Response submitted")

	return response, nil
}

// ListForRFP returns all responses to an RFP. Only the owning buyer may call it.
func (s *ResponseService) ListForRFP(ctx context.Context, user *models.User, rfpID uuid.UUID) ([]models.ResponseView, error) {
	rfp, err := s.store.GetRFP(ctx, rfpID)
	if err != nil {
		return nil, err
	}

	if user.Role != models.RoleBuyer || rfp.BuyerID != user.ID {
		return nil, fmt.Errorf("%w: only the RFP owner can view its responses", apperrors.ErrForbidden)
	}

	return s.store.ListResponseViewsByRFP(ctx, rfpID)
}

// ListMine returns the caller's own responses across all RFPs.
func (s *ResponseService) ListMine(ctx context.Context, supplier *models.User) ([]models.ResponseView, error) {
	if supplier.Role != models.RoleSupplier {
		return nil, fmt.Errorf("%w: only suppliers have responses", apperrors.ErrForbidden)
	}
	return s.store.ListResponseViewsBySupplier(ctx, supplier.ID)
}

// Decide approves or rejects a submitted response. Approval cascades in one
// transaction: the response is approved, every sibling still in Submitted is
// rejected, and the RFP moves to Approved under its version guard. Rejection
// only touches the response and bumps the RFP's updated_at.
func (s *ResponseService) Decide(ctx context.Context, buyer *models.User, rfpID, responseID uuid.UUID, req *DecideResponseRequest) (*models.Response, error) {
	if !req.Status.Decidable() {
		return nil, fmt.Errorf("%w: status must be %q or %q", apperrors.ErrValidation,
			models.ResponseStatusApproved, models.ResponseStatusRejected)
	}

	response, err := s.store.GetResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if response.RFPID != rfpID {
		return nil, fmt.Errorf("%w: response %s does not belong to rfp %s", apperrors.ErrNotFound, responseID, rfpID)
	}

	rfp, err := s.store.GetRFP(ctx, response.RFPID)
	if err != nil {
		return nil, err
	}

	if buyer.Role != models.RoleBuyer || rfp.BuyerID != buyer.ID {
		return nil, fmt.Errorf("%w: only the RFP owner can decide responses", apperrors.ErrForbidden)
	}

	if response.Status != models.ResponseStatusSubmitted {
		return nil, fmt.Errorf("%w: response has already been decided", apperrors.ErrConflict)
	}

	if req.Status == models.ResponseStatusApproved {
		err = s.store.WithTransaction(ctx, func(tx store.Store) error {
			// Re-read under the transaction: once an RFP is Approved it has
			// its winner and no further approval may go through.
			current, err := tx.GetRFP(ctx, rfp.ID)
			if err != nil {
				return err
			}
			if current.Status == models.RFPStatusApproved {
				return fmt.Errorf("%w: rfp already has an approved response", apperrors.ErrConflict)
			}

			if err := tx.UpdateResponseStatus(ctx, responseID, models.ResponseStatusApproved); err != nil {
				return err
			}
			rejected, err := tx.RejectSubmittedSiblings(ctx, rfp.ID, responseID)
			if err != nil {
				return err
			}
			s.logger.WithFields(logrus.Fields{
				"rfp_id":   rfp.ID,
				"rejected": rejected,
			}).Info("Sibling responses auto-rejected")

			return tx.UpdateRFPStatusVersioned(ctx, rfp.ID, models.RFPStatusApproved, current.Version)
		})
	} else {
		err = s.store.WithTransaction(ctx, func(tx store.Store) error {
			if err := tx.UpdateResponseStatus(ctx, responseID, models.ResponseStatusRejected); err != nil {
				return err
			}
			return tx.TouchRFP(ctx, rfp.ID)
		})
	}
	if err != nil {
		return nil, err
	}

	go s.notifySupplier(rfp, response.SupplierID, req.Status)

	s.logger.WithFields(logrus.Fields{
		"response_id": responseID,
		"rfp_id":      rfp.ID,
		"status":      req.Status,
	}).Info("Response decided")

	return s.store.GetResponse(ctx, responseID)
}

func submittable(status models.RFPStatus) bool {
	for _, s := range models.SubmittableStatuses() {
		if status == s {
			return true
		}
	}
	return false
}

func (s *ResponseService) notifyBuyer(rfp *models.RFP, supplier *models.User) {
	buyer, err := s.store.GetUser(context.Background(), rfp.BuyerID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load buyer for response notification")
		return
	}

	s.notifications.SendResponseSubmittedNotification(rfp, buyer, supplier)
}

func (s *ResponseService) notifySupplier(rfp *models.RFP, supplierID uuid.UUID, status models.ResponseStatus) {
	supplier, err := s.store.GetUser(context.Background(), supplierID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load supplier for decision notification")
		return
	}

	s.notifications.SendResponseDecisionNotification(rfp, supplier, status)
}
