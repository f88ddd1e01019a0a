// internal/models/models_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	user := &User{Username: "acme", Email: "acme@example.com", Role: RoleBuyer}

	require.NoError(t, user.SetPassword("secret123"))
	assert.NotEqual(t, "secret123", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("secret123"))
	assert.Error(t, user.CheckPassword("wrong-password"))
}

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleBuyer.Valid())
	assert.True(t, RoleSupplier.Valid())
	assert.False(t, UserRole("Admin").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestRFPStatusValid(t *testing.T) {
	for _, status := range []RFPStatus{
		RFPStatusDraft, RFPStatusPublished, RFPStatusResponseSubmitted,
		RFPStatusUnderReview, RFPStatusApproved, RFPStatusRejected,
	} {
		assert.True(t, status.Valid(), "status %q", status)
	}
	assert.False(t, RFPStatus("Cancelled").Valid())
}

func TestResponseStatusDecidable(t *testing.T) {
	assert.True(t, ResponseStatusApproved.Decidable())
	assert.True(t, ResponseStatusRejected.Decidable())
	assert.False(t, ResponseStatusSubmitted.Decidable())
	assert.False(t, ResponseStatus("Pending").Decidable())
}
