// internal/services/testutil_test.go
package services

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/procureflow/rfp-backend/internal/config"
	"github.com/procureflow/rfp-backend/internal/models"
	"github.com/procureflow/rfp-backend/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 1,
		},
		AWS: config.AWSConfig{
			UploadTimeout: 5,
		},
		Frontend: config.FrontendConfig{
			BaseURL: "http://localhost:3000",
		},
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type testEnv struct {
	store     *store.MemoryStore
	auth      *AuthService
	rfps      *RFPService
	responses *ResponseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	logger := testLogger()
	st := store.NewMemoryStore()

	notifications := NewNotificationService(cfg, logger)
	storage, err := NewStorageService(cfg)
	require.NoError(t, err)

	return &testEnv{
		store:     st,
		auth:      NewAuthService(st, cfg),
		rfps:      NewRFPService(st, storage, notifications, logger),
		responses: NewResponseService(st, storage, notifications, logger),
	}
}

func (e *testEnv) createUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) createRFP(t *testing.T, buyer *models.User, status models.RFPStatus) *models.RFP {
	t.Helper()

	rfp := &models.RFP{
		BuyerID:     buyer.ID,
		Title:       "Office furniture procurement",
		Description: "Desks and chairs for the new office",
		Status:      status,
		Version:     1,
	}
	require.NoError(t, e.store.CreateRFP(context.Background(), rfp))
	return rfp
}

func (e *testEnv) submitResponse(t *testing.T, supplier *models.User, rfpID uuid.UUID) *models.Response {
	t.Helper()

	response, err := e.responses.Submit(context.Background(), supplier, rfpID, &SubmitResponseRequest{
		ResponseText: "We can deliver within four weeks.",
	}, nil, nil)
	require.NoError(t, err)
	return response
}
