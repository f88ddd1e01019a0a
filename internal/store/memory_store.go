// internal/store/memory_store.go
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/rfp-backend/internal/apperrors"
	"github.com/procureflow/rfp-backend/internal/models"
)

// MemoryStore is an in-memory Store implementation used in tests and for
// running the server without Postgres. Transactions are best-effort: fn runs
// against the same store and there is no rollback on error.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	rfps      map[uuid.UUID]*models.RFP
	responses map[uuid.UUID]*models.Response
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[uuid.UUID]*models.User),
		rfps:      make(map[uuid.UUID]*models.RFP),
		responses: make(map[uuid.UUID]*models.Response),
	}
}

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return fmt.Errorf("%w: user already exists", apperrors.ErrConflict)
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: user with email %s", apperrors.ErrNotFound, email)
}

func (s *MemoryStore) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email || user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
}

func (s *MemoryStore) ListUsersByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []models.User
	for _, user := range s.users {
		if user.Role == role {
			users = append(users, *user)
		}
	}
	return users, nil
}

// RFPs

func (s *MemoryStore) CreateRFP(ctx context.Context, rfp *models.RFP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rfp.ID == uuid.Nil {
		rfp.ID = uuid.New()
	}
	if rfp.Version == 0 {
		rfp.Version = 1
	}
	now := time.Now()
	rfp.CreatedAt = now
	rfp.UpdatedAt = now

	clone := *rfp
	s.rfps[rfp.ID] = &clone
	return nil
}

func (s *MemoryStore) GetRFP(ctx context.Context, id uuid.UUID) (*models.RFP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rfp, ok := s.rfps[id]
	if !ok {
		return nil, fmt.Errorf("%w: rfp %s", apperrors.ErrNotFound, id)
	}
	clone := *rfp
	return &clone, nil
}

func (s *MemoryStore) UpdateRFPDetails(ctx context.Context, id uuid.UUID, title, description, documentURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rfp, ok := s.rfps[id]
	if !ok {
		return fmt.Errorf("%w: rfp %s", apperrors.ErrNotFound, id)
	}
	rfp.Title = title
	rfp.Description = description
	rfp.DocumentURL = documentURL
	rfp.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) DeleteRFP(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rfps[id]; !ok {
		return fmt.Errorf("%w: rfp %s", apperrors.ErrNotFound, id)
	}
	delete(s.rfps, id)
	return nil
}

func (s *MemoryStore) ListRFPsByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.RFP, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rfps []models.RFP
	for _, rfp := range s.rfps {
		if rfp.BuyerID == buyerID {
			rfps = append(rfps, *rfp)
		}
	}
	return pageRFPs(rfps, limit, offset)
}

func (s *MemoryStore) ListRFPsByStatuses(ctx context.Context, statuses []models.RFPStatus, limit, offset int) ([]models.RFP, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rfps []models.RFP
	for _, rfp := range s.rfps {
		for _, status := range statuses {
			if rfp.Status == status {
				rfps = append(rfps, *rfp)
				break
			}
		}
	}
	return pageRFPs(rfps, limit, offset)
}

// SearchPublishedRFPs mirrors the Postgres full-text search: every query term
// must match, and results are ordered by descending relevance (here the total
// number of term occurrences), newest first on ties.
func (s *MemoryStore) SearchPublishedRFPs(ctx context.Context, query string) ([]models.RFP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms := strings.Fields(strings.ToLower(query))

	type match struct {
		rfp   models.RFP
		score int
	}
	var matches []match
	for _, rfp := range s.rfps {
		if rfp.Status != models.RFPStatusPublished {
			continue
		}
		haystack := strings.ToLower(rfp.Title + " " + rfp.Description)
		score := 0
		for _, term := range terms {
			count := strings.Count(haystack, term)
			if count == 0 {
				score = 0
				break
			}
			score += count
		}
		if score > 0 {
			matches = append(matches, match{rfp: *rfp, score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].rfp.CreatedAt.After(matches[j].rfp.CreatedAt)
	})

	rfps := make([]models.RFP, len(matches))
	for i, m := range matches {
		rfps[i] = m.rfp
	}
	return rfps, nil
}

func (s *MemoryStore) UpdateRFPStatusVersioned(ctx context.Context, id uuid.UUID, status models.RFPStatus, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rfp, ok := s.rfps[id]
	if !ok {
		return fmt.Errorf("%w: rfp %s was modified concurrently", apperrors.ErrConflict, id)
	}
	if rfp.Version != expectedVersion {
		return fmt.Errorf("%w: rfp %s was modified concurrently", apperrors.ErrConflict, id)
	}

	rfp.Status = status
	rfp.Version++
	rfp.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) TouchRFP(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rfp, ok := s.rfps[id]
	if !ok {
		return fmt.Errorf("%w: rfp %s", apperrors.ErrNotFound, id)
	}
	rfp.UpdatedAt = time.Now()
	return nil
}

// Responses

func (s *MemoryStore) CreateResponse(ctx context.Context, response *models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	if response.Status == "" {
		response.Status = models.ResponseStatusSubmitted
	}
	response.SubmittedAt = time.Now()

	clone := *response
	s.responses[response.ID] = &clone
	return nil
}

func (s *MemoryStore) GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response, ok := s.responses[id]
	if !ok {
		return nil, fmt.Errorf("%w: response %s", apperrors.ErrNotFound, id)
	}
	clone := *response
	return &clone, nil
}

func (s *MemoryStore) ListResponseViewsByRFP(ctx context.Context, rfpID uuid.UUID) ([]models.ResponseView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var views []models.ResponseView
	for _, response := range s.responses {
		if response.RFPID == rfpID {
			views = append(views, s.buildView(response))
		}
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].SubmittedAt.Before(views[j].SubmittedAt)
	})
	return views, nil
}

func (s *MemoryStore) ListResponseViewsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.ResponseView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var views []models.ResponseView
	for _, response := range s.responses {
		if response.SupplierID == supplierID {
			views = append(views, s.buildView(response))
		}
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].SubmittedAt.After(views[j].SubmittedAt)
	})
	return views, nil
}

func (s *MemoryStore) SupplierHasResponse(ctx context.Context, rfpID, supplierID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, response := range s.responses {
		if response.RFPID == rfpID && response.SupplierID == supplierID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) UpdateResponseStatus(ctx context.Context, id uuid.UUID, status models.ResponseStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	response, ok := s.responses[id]
	if !ok {
		return fmt.Errorf("%w: response %s", apperrors.ErrNotFound, id)
	}
	response.Status = status
	return nil
}

func (s *MemoryStore) RejectSubmittedSiblings(ctx context.Context, rfpID, exceptID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rejected int64
	for _, response := range s.responses {
		if response.RFPID == rfpID && response.ID != exceptID && response.Status == models.ResponseStatusSubmitted {
			response.Status = models.ResponseStatusRejected
			rejected++
		}
	}
	return rejected, nil
}

func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

func (s *MemoryStore) buildView(response *models.Response) models.ResponseView {
	view := models.ResponseView{Response: *response}
	if rfp, ok := s.rfps[response.RFPID]; ok {
		view.RFPTitle = rfp.Title
	}
	return view
}

func pageRFPs(rfps []models.RFP, limit, offset int) ([]models.RFP, int64, error) {
	sort.Slice(rfps, func(i, j int) bool {
		return rfps[i].CreatedAt.After(rfps[j].CreatedAt)
	})

	total := int64(len(rfps))
	if offset >= len(rfps) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(rfps) {
		end = len(rfps)
	}
	return rfps[offset:end], total, nil
}
