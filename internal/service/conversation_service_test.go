package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

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
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Listing{},
		&model.ListingImage{},
		&model.Conversation{},
		&model.Message{},
	))
	return db
}

func newConvService(t *testing.T) ConversationService {
	t.Helper()
	return NewConversationService(repository.NewConversationRepository(newTestDB(t)))
}

func pairInput(sender, receiver string, listingID uint64, title string) FindOrCreateInput {
	return FindOrCreateInput{
		Sender:       model.Participant{UID: sender, DisplayName: strings.ToUpper(sender)},
		Receiver:     model.Participant{UID: receiver, DisplayName: strings.ToUpper(receiver)},
		ListingID:    listingID,
		ListingTitle: title,
	}
}

func TestFindOrCreate_Validation(t *testing.T) {
	svc := newConvService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   FindOrCreateInput
	}{
		{"empty sender", pairInput("", "u2", 1, "A")},
		{"empty receiver", pairInput("u1", "", 1, "A")},
		{"self chat", pairInput("u1", "u1", 1, "A")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.FindOrCreate(ctx, tt.in)
			require.True(t, IsValidation(err), "want validation error, got %v", err)
		})
	}
}

func TestFindOrCreate_ConversationFollowsThePair(t *testing.T) {
	svc := newConvService(t)
	ctx := context.Background()

	// U1 contacts U2 about listing L1: a new conversation.
	cv1, created, err := svc.FindOrCreate(ctx, pairInput("u1", "u2", 1, "Calculator"))
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, uint64(1), cv1.ListingID)

	// U1 later contacts U2 about listing L2: same conversation, context
	// overwritten.
	cv2, created, err := svc.FindOrCreate(ctx, pairInput("u1", "u2", 2, "Textbook"))
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, cv1.ID, cv2.ID)
	require.Equal(t, uint64(2), cv2.ListingID)
	require.Equal(t, "Textbook", cv2.ListingTitle)

	// Repeated calls with varying context keep returning the same id and
	// the latest context sticks.
	for i := 0; i < 3; i++ {
		got, _, err := svc.FindOrCreate(ctx, pairInput("u2", "u1", uint64(10+i), "X"))
		require.NoError(t, err)
		require.Equal(t, cv1.ID, got.ID)
		require.Equal(t, uint64(10+i), got.ListingID)
	}
}

func TestFindOrCreate_SnapshotsParticipantsAtCreation(t *testing.T) {
	svc := newConvService(t)
	ctx := context.Background()

	cv, _, err := svc.FindOrCreate(ctx, pairInput("zed", "amy", 1, "A"))
	require.NoError(t, err)

	parts := cv.Participants()
	require.Equal(t, "amy", parts[0].UID)
	require.Equal(t, "AMY", parts[0].DisplayName)
	require.Equal(t, "zed", parts[1].UID)
	require.True(t, cv.HasParticipant("amy"))
	require.True(t, cv.HasParticipant("zed"))
	require.False(t, cv.HasParticipant("bob"))
}

func TestAppendMessage_RoundTripAndSummary(t *testing.T) {
	svc := newConvService(t)
	ctx := context.Background()

	cv, _, err := svc.FindOrCreate(ctx, pairInput("u1", "u2", 1, "A"))
	require.NoError(t, err)

	msg, err := svc.AppendMessage(ctx, cv.ID, "u1", "  hello  ")
	require.NoError(t, err)
	require.NotZero(t, msg.ID)
	require.Equal(t, "hello", msg.Text)
	require.False(t, msg.CreatedAt.IsZero())

	msgs, err := svc.ListMessages(ctx, cv.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "hello", msgs[0].Text)
	require.Equal(t, "u1", msgs[0].SenderUID)

	list, err := svc.ListByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "hello", list[0].LastMessageText)
	require.Equal(t, "u1", list[0].LastMessageSenderUID)
	require.NotNil(t, list[0].LastMessageAt)
	require.True(t, list[0].LastMessageAt.Equal(msg.CreatedAt))
}

func TestAppendMessage_RejectsBlankText(t *testing.T) {
	svc := newConvService(t)
	ctx := context.Background()

	cv, _, err := svc.FindOrCreate(ctx, pairInput("u1", "u2", 1, "A"))
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.AppendMessage(ctx, cv.ID, "u1", text)
		require.True(t, IsValidation(err), "text %q should be rejected", text)
	}

	// No message and no summary change happened.
	msgs, err := svc.ListMessages(ctx, cv.ID, 0, 0)
	require.NoError(t, err)
	require.Empty(t, msgs)
	list, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, list[0].LastMessageText)
	require.Nil(t, list[0].LastMessageAt)
}

func TestAppendMessage_OnlyParticipantsMaySend(t *testing.T) {
	svc := newConvService(t)
	ctx := context.Background()

	cv, _, err := svc.FindOrCreate(ctx, pairInput("u1", "u2", 1, "A"))
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, cv.ID, "intruder", "hi")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestMessageOps_UnknownConversation(t *testing.T) {
	svc := newConvService(t)
	ctx := context.Background()

	_, err := svc.AppendMessage(ctx, 9999, "u1", "hi")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListMessages(ctx, 9999, 0, 0)
	require.ErrorIs(t, err, ErrNotFound)
}
