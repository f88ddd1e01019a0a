// internal/store/gorm_store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procureflow/rfp-backend/internal/apperrors"
	"github.com/procureflow/rfp-backend/internal/models"
)

// GormStore implements Store on top of a GORM Postgres connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Users

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// A concurrent registration can slip past the service's pre-check
		// and land on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: user already exists", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user with email %s", apperrors.ErrNotFound, email)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *GormStore) ListUsersByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", role).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// RFPs

func (s *GormStore) CreateRFP(ctx context.Context, rfp *models.RFP) error {
	if err := s.db.WithContext(ctx).Create(rfp).Error; err != nil {
		return fmt.Errorf("failed to create RFP: %w", err)
	}
	return nil
}

func (s *GormStore) GetRFP(ctx context.Context, id uuid.UUID) (*models.RFP, error) {
	var rfp models.RFP
	if err := s.db.WithContext(ctx).First(&rfp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: rfp %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &rfp, nil
}

func (s *GormStore) UpdateRFPDetails(ctx context.Context, id uuid.UUID, title, description, documentURL string) error {
	result := s.db.WithContext(ctx).Model(&models.RFP{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":        title,
			"description":  description,
			"document_url": documentURL,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update RFP: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: rfp %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (s *GormStore) DeleteRFP(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.RFP{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete RFP: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: rfp %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (s *GormStore) ListRFPsByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.RFP, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.RFP{}).Where("buyer_id = ?", buyerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count RFPs: %w", err)
	}

	var rfps []models.RFP
	if err := query.
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rfps).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list RFPs: %w", err)
	}
	return rfps, total, nil
}

func (s *GormStore) ListRFPsByStatuses(ctx context.Context, statuses []models.RFPStatus, limit, offset int) ([]models.RFP, int64, error) {
	if len(statuses) == 0 {
		return nil, 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.RFP{}).Where("status IN ?", statuses)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count RFPs: %w", err)
	}

	var rfps []models.RFP
	if err := query.
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rfps).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list RFPs: %w", err)
	}
	return rfps, total, nil
}

const rfpSearchVector = "to_tsvector('english', title || ' ' || description)"

func (s *GormStore) SearchPublishedRFPs(ctx context.Context, query string) ([]models.RFP, error) {
	var rfps []models.RFP
	sql := fmt.Sprintf(`
		SELECT * FROM rfps
		WHERE status = ? AND %s @@ plainto_tsquery('english', ?)
		ORDER BY ts_rank(%s, plainto_tsquery('english', ?)) DESC`,
		rfpSearchVector, rfpSearchVector)
	if err := s.db.WithContext(ctx).
		Raw(sql, models.RFPStatusPublished, query, query).
		Scan(&rfps).Error; err != nil {
		return nil, fmt.Errorf("failed to search RFPs: %w", err)
	}
	return rfps, nil
}

func (s *GormStore) UpdateRFPStatusVersioned(ctx context.Context, id uuid.UUID, status models.RFPStatus, expectedVersion int64) error {
	result := s.db.WithContext(ctx).Model(&models.RFP{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update RFP status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: rfp %s was modified concurrently", apperrors.ErrConflict, id)
	}
	return nil
}

func (s *GormStore) TouchRFP(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.RFP{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("NOW()"))
	if result.Error != nil {
		return fmt.Errorf("failed to touch RFP: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: rfp %s", apperrors.ErrNotFound, id)
	}
	return nil
}

// Responses

func (s *GormStore) CreateResponse(ctx context.Context, response *models.Response) error {
	if err := s.db.WithContext(ctx).Create(response).Error; err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	return nil
}

func (s *GormStore) GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error) {
	var response models.Response
	if err := s.db.WithContext(ctx).First(&response, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: response %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &response, nil
}

func (s *GormStore) ListResponseViewsByRFP(ctx context.Context, rfpID uuid.UUID) ([]models.ResponseView, error) {
	var views []models.ResponseView
	if err := s.db.WithContext(ctx).Table("responses").
		Select("responses.*, rfps.title AS rfp_title").
		Joins("JOIN rfps ON rfps.id = responses.rfp_id").
		Where("responses.rfp_id = ?", rfpID).
		Order("responses.submitted_at ASC").
		Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return views, nil
}

func (s *GormStore) ListResponseViewsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.ResponseView, error) {
	var views []models.ResponseView
	if err := s.db.WithContext(ctx).Table("responses").
		Select("responses.*, rfps.title AS rfp_title").
		Joins("JOIN rfps ON rfps.id = responses.rfp_id").
		Where("responses.supplier_id = ?", supplierID).
		Order("responses.submitted_at DESC").
		Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return views, nil
}

func (s *GormStore) SupplierHasResponse(ctx context.Context, rfpID, supplierID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Response{}).
		Where("rfp_id = ? AND supplier_id = ?", rfpID, supplierID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check responses: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) UpdateResponseStatus(ctx context.Context, id uuid.UUID, status models.ResponseStatus) error {
	result := s.db.WithContext(ctx).Model(&models.Response{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update response status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: response %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (s *GormStore) RejectSubmittedSiblings(ctx context.Context, rfpID, exceptID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Response{}).
		Where("rfp_id = ? AND id <> ? AND status = ?", rfpID, exceptID, models.ResponseStatusSubmitted).
		Update("status", models.ResponseStatusRejected)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reject sibling responses: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// WithTransaction runs fn against a store bound to a single transaction.
func (s *GormStore) WithTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
