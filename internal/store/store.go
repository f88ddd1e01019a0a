// internal/store/store.go
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/procureflow/rfp-backend/internal/models"
)

// Store is the data-access context injected into services. It replaces any
// ambient database global: the implementation is constructed at startup and
// closed at shutdown by the caller.
//
// Lookup methods return an error wrapping apperrors.ErrNotFound when the id
// does not resolve. UpdateRFPStatusVersioned returns an error wrapping
// apperrors.ErrConflict when the optimistic version check fails.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	ListUsersByRole(ctx context.Context, role models.UserRole) ([]models.User, error)

	// RFPs
	CreateRFP(ctx context.Context, rfp *models.RFP) error
	GetRFP(ctx context.Context, id uuid.UUID) (*models.RFP, error)
	// UpdateRFPDetails writes only the content columns (title, description,
	// document URL), never status or version, so it cannot clobber a
	// concurrent lifecycle transition.
	UpdateRFPDetails(ctx context.Context, id uuid.UUID, title, description, documentURL string) error
	DeleteRFP(ctx context.Context, id uuid.UUID) error
	// Listing methods return one page of rows plus the total row count.
	ListRFPsByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.RFP, int64, error)
	ListRFPsByStatuses(ctx context.Context, statuses []models.RFPStatus, limit, offset int) ([]models.RFP, int64, error)
	// SearchPublishedRFPs returns Published RFPs matching the query,
	// ordered by descending textual relevance.
	SearchPublishedRFPs(ctx context.Context, query string) ([]models.RFP, error)
	// UpdateRFPStatusVersioned sets the status only if the stored version
	// still matches expectedVersion, bumping version and updated_at.
	UpdateRFPStatusVersioned(ctx context.Context, id uuid.UUID, status models.RFPStatus, expectedVersion int64) error
	// TouchRFP bumps updated_at without changing status.
	TouchRFP(ctx context.Context, id uuid.UUID) error

	// Responses
	CreateResponse(ctx context.Context, response *models.Response) error
	GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error)
	ListResponseViewsByRFP(ctx context.Context, rfpID uuid.UUID) ([]models.ResponseView, error)
	ListResponseViewsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.ResponseView, error)
	SupplierHasResponse(ctx context.Context, rfpID, supplierID uuid.UUID) (bool, error)
	UpdateResponseStatus(ctx context.Context, id uuid.UUID, status models.ResponseStatus) error
	// RejectSubmittedSiblings moves every response of the RFP still in
	// Submitted, other than exceptID, to Rejected. Already-decided
	// responses are left untouched.
	RejectSubmittedSiblings(ctx context.Context, rfpID, exceptID uuid.UUID) (int64, error)

	// WithTransaction runs fn against a transactional view of the store.
	// Any error from fn rolls the transaction back.
	WithTransaction(ctx context.Context, fn func(Store) error) error
}
