// internal/services/rfp_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procureflow/rfp-backend/internal/apperrors"
	"github.com/procureflow/rfp-backend/internal/models"
	"github.com/procureflow/rfp-backend/internal/utils"
)

func defaultParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20}
}

func TestCreateRFP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)

	rfp, err := env.rfps.Create(ctx, buyer, &CreateRFPRequest{
		Title:       "Fleet maintenance contract",
		Description: "Annual maintenance for twelve delivery vans",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RFPStatusDraft, rfp.Status)
	assert.Equal(t, int64(1), rfp.Version)
	assert.Equal(t, buyer.ID, rfp.BuyerID)
}

func TestCreateRFPSupplierForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	supplier := env.createUser(t, "supplier", models.RoleSupplier)

	_, err := env.rfps.Create(ctx, supplier, &CreateRFPRequest{
		Title:       "Fleet maintenance contract",
		Description: "Annual maintenance for twelve delivery vans",
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateRFPTitleBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)

	_, err := env.rfps.Create(ctx, buyer, &CreateRFPRequest{
		Title:       "abcd", // below the 5 character minimum
		Description: "Annual maintenance for twelve delivery vans",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateRFPOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	other := env.createUser(t, "other_buyer", models.RoleBuyer)
	rfp := env.createRFP(t, buyer, models.RFPStatusDraft)

	title := "Updated fleet maintenance contract"
	_, err := env.rfps.Update(ctx, other, rfp.ID, &UpdateRFPRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := env.rfps.Update(ctx, buyer, rfp.ID, &UpdateRFPRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
}

func TestTransitionRFP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	rfp := env.createRFP(t, buyer, models.RFPStatusDraft)

	updated, err := env.rfps.Transition(ctx, buyer, rfp.ID, &TransitionRFPRequest{
		Status: models.RFPStatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RFPStatusPublished, updated.Status)
	assert.Equal(t, int64(2), updated.Version)
}

func TestTransitionRFPInvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	rfp := env.createRFP(t, buyer, models.RFPStatusDraft)

	_, err := env.rfps.Transition(ctx, buyer, rfp.ID, &TransitionRFPRequest{
		Status: "Cancelled",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTransitionRFPConcurrentConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	rfp := env.createRFP(t, buyer, models.RFPStatusDraft)

	// Another actor bumps the version between read and write.
	require.NoError(t, env.store.UpdateRFPStatusVersioned(ctx, rfp.ID, models.RFPStatusUnderReview, 1))

	err := env.store.UpdateRFPStatusVersioned(ctx, rfp.ID, models.RFPStatusPublished, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestListRFPsByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)

	env.createRFP(t, buyer, models.RFPStatusDraft)
	env.createRFP(t, buyer, models.RFPStatusPublished)
	env.createRFP(t, buyer, models.RFPStatusResponseSubmitted)
	env.createRFP(t, buyer, models.RFPStatusApproved)

	buyerResult, err := env.rfps.List(ctx, buyer, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(4), buyerResult.Total)

	supplierResult, err := env.rfps.List(ctx, supplier, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), supplierResult.Total) // Published + Response Submitted only
}

func TestGetRFPVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)

	draft := env.createRFP(t, buyer, models.RFPStatusDraft)
	published := env.createRFP(t, buyer, models.RFPStatusPublished)

	// Supplier cannot see a draft; it looks like it does not exist.
	_, err := env.rfps.Get(ctx, supplier, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := env.rfps.Get(ctx, supplier, published.ID)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)

	// Buyer sees their own drafts.
	got, err = env.rfps.Get(ctx, buyer, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestGetRFPSupplierKeepsAccessAfterResponding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	responder := env.createUser(t, "supplier", models.RoleSupplier)
	bystander := env.createUser(t, "supplier_two", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	env.submitResponse(t, responder, rfp.ID)

	// The RFP leaves the supplier-visible set entirely.
	require.NoError(t, env.store.UpdateRFPStatusVersioned(ctx, rfp.ID, models.RFPStatusApproved, 2))

	// The responder still sees the RFP they engaged with.
	got, err := env.rfps.Get(ctx, responder, rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, rfp.ID, got.ID)

	// Everyone else does not.
	_, err = env.rfps.Get(ctx, bystander, rfp.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSearchPublishedRFPs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)

	published := env.createRFP(t, buyer, models.RFPStatusPublished)
	env.createRFP(t, buyer, models.RFPStatusDraft) // same title, but draft

	results, err := env.rfps.Search(ctx, "furniture")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, published.ID, results[0].ID)

	_, err = env.rfps.Search(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSearchRanksByRelevance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)

	strong := &models.RFP{
		BuyerID:     buyer.ID,
		Title:       "Office furniture procurement",
		Description: "Furniture for the new office: desk furniture, chairs and meeting room furniture",
		Status:      models.RFPStatusPublished,
	}
	require.NoError(t, env.store.CreateRFP(ctx, strong))

	weak := &models.RFP{
		BuyerID:     buyer.ID,
		Title:       "General office supplies",
		Description: "Stationery plus a small furniture order",
		Status:      models.RFPStatusPublished,
	}
	require.NoError(t, env.store.CreateRFP(ctx, weak))

	results, err := env.rfps.Search(ctx, "furniture")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Creation order alone would put the weaker match first.
	assert.Equal(t, strong.ID, results[0].ID)
	assert.Equal(t, weak.ID, results[1].ID)
}

func TestUpdateRFPDetailsPreservesTransition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	rfp := env.createRFP(t, buyer, models.RFPStatusDraft)

	// A status transition lands between the edit's read and its write.
	require.NoError(t, env.store.UpdateRFPStatusVersioned(ctx, rfp.ID, models.RFPStatusPublished, 1))

	title := "Updated office furniture procurement"
	require.NoError(t, env.store.UpdateRFPDetails(ctx, rfp.ID, title, rfp.Description, rfp.DocumentURL))

	updated, err := env.store.GetRFP(ctx, rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RFPStatusPublished, updated.Status)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, title, updated.Title)
}

func TestDeleteRFP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	rfp := env.createRFP(t, buyer, models.RFPStatusDraft)

	require.NoError(t, env.rfps.Delete(ctx, buyer, rfp.ID))

	_, err := env.store.GetRFP(ctx, rfp.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteRFPNonDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)

	for _, status := range []models.RFPStatus{
		models.RFPStatusPublished,
		models.RFPStatusResponseSubmitted,
		models.RFPStatusUnderReview,
		models.RFPStatusApproved,
		models.RFPStatusRejected,
	} {
		rfp := env.createRFP(t, buyer, status)
		err := env.rfps.Delete(ctx, buyer, rfp.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict, "status %s should block deletion", status)
	}
}
