package scheduler

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tharun06x/team-chanchal/internal/model"
	"github.com/tharun06x/team-chanchal/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Listing{}, &model.ListingImage{}))
	return db
}

func TestSweep_ExpiresOverdueListings(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewListingRepository(db)
	ctx := context.Background()

	overdue := &model.Listing{
		Title: "overdue", Description: "d", Price: 1,
		Category: model.CategoryOther, Condition: model.ConditionUsedGood,
		Status: model.StatusActive, SellerUID: "s",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	fresh := &model.Listing{
		Title: "fresh", Description: "d", Price: 1,
		Category: model.CategoryOther, Condition: model.ConditionUsedGood,
		Status: model.StatusActive, SellerUID: "s",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, overdue))
	require.NoError(t, repo.Create(ctx, fresh))

	s := NewExpirySweeper(repo, nil, time.Hour)
	s.Sweep(ctx)

	got, err := repo.FindByID(ctx, overdue.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusExpired, got.Status)

	got, err = repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, got.Status)
}

func TestSweeper_StartStopRestart(t *testing.T) {
	repo := repository.NewListingRepository(newTestDB(t))
	s := NewExpirySweeper(repo, nil, 10*time.Millisecond)
	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()
	// Stop is idempotent.
	s.Stop()

	// The sweeper restarts cleanly after a full stop.
	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()
}
