package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tharun06x/team-chanchal/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database migrated with the
// full schema.
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

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Listing{},
		&model.ListingImage{},
		&model.Conversation{},
		&model.Message{},
	))
	return db
}

func participant(uid, name string) model.Participant {
	return model.Participant{UID: uid, DisplayName: name}
}

func newConversation(uid1, uid2 string, listingID uint64, title string) *model.Conversation {
	cv := &model.Conversation{ListingID: listingID, ListingTitle: title}
	cv.SetParticipants(participant(uid1, uid1), participant(uid2, uid2))
	return cv
}
