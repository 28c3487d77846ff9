package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/db"
	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateAll(gdb))
	return gdb
}

func newTestAuthService(t *testing.T, gdb *gorm.DB) AuthService {
	t.Helper()
	log := logger.NewNop()
	return NewAuthService(gdb, log, repos.NewUserRepo(gdb, log), repos.NewProfileRepo(gdb, log), "test-secret", time.Hour)
}

// registerTestUser creates a user with a complete enough profile for the
// service under test and returns its ID.
func registerTestUser(t *testing.T, gdb *gorm.DB, stage int) uuid.UUID {
	t.Helper()
	log := logger.NewNop()
	userID := uuid.New()
	require.NoError(t, repos.NewUserRepo(gdb, log).Create(context.Background(), nil, &types.User{
		ID:           userID,
		Email:        fmt.Sprintf("%s@example.com", userID),
		PasswordHash: "x",
	}))
	require.NoError(t, repos.NewProfileRepo(gdb, log).Create(context.Background(), nil, &types.Profile{
		ID:            uuid.New(),
		UserID:        userID,
		FullName:      "Asha",
		GPA:           "3.4",
		TargetCountry: "Canada",
		CurrentStage:  stage,
	}))
	return userID
}
