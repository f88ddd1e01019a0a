// internal/services/response_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procureflow/rfp-backend/internal/apperrors"
	"github.com/procureflow/rfp-backend/internal/models"
)

func TestSubmitResponse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	response := env.submitResponse(t, supplier, rfp.ID)
	assert.Equal(t, models.ResponseStatusSubmitted, response.Status)

	// First submission moves the RFP out of Published.
	updated, err := env.store.GetRFP(ctx, rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RFPStatusResponseSubmitted, updated.Status)
}

func TestSubmitResponseSecondSupplier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	first := env.createUser(t, "supplier_one", models.RoleSupplier)
	second := env.createUser(t, "supplier_two", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	env.submitResponse(t, first, rfp.ID)
	env.submitResponse(t, second, rfp.ID)

	updated, err := env.store.GetRFP(ctx, rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RFPStatusResponseSubmitted, updated.Status)

	views, err := env.store.ListResponseViewsByRFP(ctx, rfp.ID)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestSubmitResponseClosedRFP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)

	for _, status := range []models.RFPStatus{
		models.RFPStatusDraft,
		models.RFPStatusUnderReview,
		models.RFPStatusApproved,
		models.RFPStatusRejected,
	} {
		rfp := env.createRFP(t, buyer, status)
		_, err := env.responses.Submit(ctx, supplier, rfp.ID, &SubmitResponseRequest{
			ResponseText: "We can deliver within four weeks.",
		}, nil, nil)
		assert.ErrorIs(t, err, apperrors.ErrConflict, "status %s should not accept responses", status)
	}
}

func TestSubmitResponseDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	env.submitResponse(t, supplier, rfp.ID)

	_, err := env.responses.Submit(ctx, supplier, rfp.ID, &SubmitResponseRequest{
		ResponseText: "Second attempt.",
	}, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSubmitResponseBuyerForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	_, err := env.responses.Submit(ctx, buyer, rfp.ID, &SubmitResponseRequest{
		ResponseText: "Buyers cannot respond.",
	}, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestApproveCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	winner := env.createUser(t, "supplier_one", models.RoleSupplier)
	loser := env.createUser(t, "supplier_two", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	winning := env.submitResponse(t, winner, rfp.ID)
	losing := env.submitResponse(t, loser, rfp.ID)

	decided, err := env.responses.Decide(ctx, buyer, rfp.ID, winning.ID, &DecideResponseRequest{
		Status: models.ResponseStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResponseStatusApproved, decided.Status)

	// Sibling still in Submitted is auto-rejected.
	other, err := env.store.GetResponse(ctx, losing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResponseStatusRejected, other.Status)

	// The RFP itself lands in Approved.
	updated, err := env.store.GetRFP(ctx, rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RFPStatusApproved, updated.Status)
}

func TestApprovePreservesDecidedSiblings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	winner := env.createUser(t, "supplier_one", models.RoleSupplier)
	rejected := env.createUser(t, "supplier_two", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	alreadyRejected := env.submitResponse(t, rejected, rfp.ID)
	winning := env.submitResponse(t, winner, rfp.ID)

	_, err := env.responses.Decide(ctx, buyer, rfp.ID, alreadyRejected.ID, &DecideResponseRequest{
		Status: models.ResponseStatusRejected,
	})
	require.NoError(t, err)

	_, err = env.responses.Decide(ctx, buyer, rfp.ID, winning.ID, &DecideResponseRequest{
		Status: models.ResponseStatusApproved,
	})
	require.NoError(t, err)

	// The manual rejection is not overwritten by the cascade.
	other, err := env.store.GetResponse(ctx, alreadyRejected.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResponseStatusRejected, other.Status)
}

func TestRejectLeavesRFPStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	response := env.submitResponse(t, supplier, rfp.ID)

	decided, err := env.responses.Decide(ctx, buyer, rfp.ID, response.ID, &DecideResponseRequest{
		Status: models.ResponseStatusRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResponseStatusRejected, decided.Status)

	updated, err := env.store.GetRFP(ctx, rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RFPStatusResponseSubmitted, updated.Status)
}

func TestDecideAlreadyDecided(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	response := env.submitResponse(t, supplier, rfp.ID)

	_, err := env.responses.Decide(ctx, buyer, rfp.ID, response.ID, &DecideResponseRequest{
		Status: models.ResponseStatusRejected,
	})
	require.NoError(t, err)

	_, err = env.responses.Decide(ctx, buyer, rfp.ID, response.ID, &DecideResponseRequest{
		Status: models.ResponseStatusApproved,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestDecideValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	response := env.submitResponse(t, supplier, rfp.ID)

	// Submitted is not a decision.
	_, err := env.responses.Decide(ctx, buyer, rfp.ID, response.ID, &DecideResponseRequest{
		Status: models.ResponseStatusSubmitted,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDecideOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	other := env.createUser(t, "other_buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	response := env.submitResponse(t, supplier, rfp.ID)

	_, err := env.responses.Decide(ctx, other, rfp.ID, response.ID, &DecideResponseRequest{
		Status: models.ResponseStatusApproved,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = env.responses.Decide(ctx, supplier, rfp.ID, response.ID, &DecideResponseRequest{
		Status: models.ResponseStatusApproved,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSubmitBumpsRFPVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	first := env.createUser(t, "supplier_one", models.RoleSupplier)
	second := env.createUser(t, "supplier_two", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	env.submitResponse(t, first, rfp.ID)
	env.submitResponse(t, second, rfp.ID)

	updated, err := env.store.GetRFP(ctx, rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Version)

	// A writer holding the version from before the second submission loses
	// its compare-and-set, so a racing cascade cannot miss the new response.
	err = env.store.UpdateRFPStatusVersioned(ctx, rfp.ID, models.RFPStatusApproved, 2)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestApproveRefusedOnApprovedRFP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	winner := env.createUser(t, "supplier_one", models.RoleSupplier)
	straggler := env.createUser(t, "supplier_two", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	winning := env.submitResponse(t, winner, rfp.ID)
	_, err := env.responses.Decide(ctx, buyer, rfp.ID, winning.ID, &DecideResponseRequest{
		Status: models.ResponseStatusApproved,
	})
	require.NoError(t, err)

	// A submission that slipped in around the cascade must not yield a
	// second winner.
	late := &models.Response{
		RFPID:        rfp.ID,
		SupplierID:   straggler.ID,
		ResponseText: "We can deliver within four weeks.",
		Status:       models.ResponseStatusSubmitted,
	}
	require.NoError(t, env.store.CreateResponse(ctx, late))

	_, err = env.responses.Decide(ctx, buyer, rfp.ID, late.ID, &DecideResponseRequest{
		Status: models.ResponseStatusApproved,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	kept, err := env.store.GetResponse(ctx, winning.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResponseStatusApproved, kept.Status)
}

func TestDecideWrongRFP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)
	unrelated := env.createRFP(t, buyer, models.RFPStatusPublished)

	response := env.submitResponse(t, supplier, rfp.ID)

	// The response id must belong to the RFP named in the request.
	_, err := env.responses.Decide(ctx, buyer, unrelated.ID, response.ID, &DecideResponseRequest{
		Status: models.ResponseStatusApproved,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListResponsesForRFPOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	other := env.createUser(t, "other_buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)
	rfp := env.createRFP(t, buyer, models.RFPStatusPublished)

	env.submitResponse(t, supplier, rfp.ID)

	views, err := env.responses.ListForRFP(ctx, buyer, rfp.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, rfp.Title, views[0].RFPTitle)

	_, err = env.responses.ListForRFP(ctx, other, rfp.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = env.responses.ListForRFP(ctx, supplier, rfp.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestListMyResponses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "buyer", models.RoleBuyer)
	supplier := env.createUser(t, "supplier", models.RoleSupplier)
	otherSupplier := env.createUser(t, "supplier_two", models.RoleSupplier)

	first := env.createRFP(t, buyer, models.RFPStatusPublished)
	second := env.createRFP(t, buyer, models.RFPStatusPublished)

	env.submitResponse(t, supplier, first.ID)
	env.submitResponse(t, supplier, second.ID)
	env.submitResponse(t, otherSupplier, first.ID)

	views, err := env.responses.ListMine(ctx, supplier)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	_, err = env.responses.ListMine(ctx, buyer)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
