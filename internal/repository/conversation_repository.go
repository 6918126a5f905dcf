package repository

import (
	"context"
	"errors"

	"github.com/tharun06x/team-chanchal/internal/model"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	// FindOrCreate looks up the conversation for cv.PairKey and inserts cv
	// if none exists. Two callers racing on the same uncreated pair are
	// serialized by the unique index: the loser re-reads the winner's row.
	// Returns the stored conversation and whether this call created it.
	FindOrCreate(ctx context.Context, cv *model.Conversation) (*model.Conversation, bool, error)
	FindByID(ctx context.Context, id uint64) (*model.Conversation, error)
	UpdateListingContext(ctx context.Context, id uint64, listingID uint64, listingTitle string) error
	ListByUser(ctx context.Context, uid string) ([]model.Conversation, error)

	// AppendMessage inserts msg and updates the parent conversation's
	// summary fields in one transaction, so the summary always reflects the
	// latest appended message.
	AppendMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, convID, afterID uint64, limit int) ([]model.Message, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, cv *model.Conversation) (*model.Conversation, bool, error) {
	var existing model.Conversation
	err := r.db.WithContext(ctx).
		Where("pair_key = ?", cv.PairKey).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := r.db.WithContext(ctx).Create(cv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the first-contact race; the other writer's row wins.
			var winner model.Conversation
			if err := r.db.WithContext(ctx).
				Where("pair_key = ?", cv.PairKey).
				First(&winner).Error; err != nil {
				return nil, false, err
			}
			return &winner, false, nil
		}
		return nil, false, err
	}
	return cv, true, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	var cv model.Conversation
	if err := r.db.WithContext(ctx).First(&cv, id).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) UpdateListingContext(ctx context.Context, id uint64, listingID uint64, listingTitle string) error {
	return r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"listing_id":    listingID,
			"listing_title": listingTitle,
		}).Error
}

func (r *conversationRepository) ListByUser(ctx context.Context, uid string) ([]model.Conversation, error) {
	var list []model.Conversation
	// Conversations with no messages yet rank by creation time.
	if err := r.db.WithContext(ctx).
		Where("user_a_uid = ? OR user_b_uid = ?", uid, uid).
		Order("COALESCE(last_message_at, created_at) DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *conversationRepository) AppendMessage(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(map[string]any{
				"last_message_text":       msg.Text,
				"last_message_sender_uid": msg.SenderUID,
				"last_message_at":         msg.CreatedAt,
			}).Error
	})
}

func (r *conversationRepository) ListMessages(ctx context.Context, convID, afterID uint64, limit int) ([]model.Message, error) {
	q := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC")
	if afterID > 0 {
		q = q.Where("id > ?", afterID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var msgs []model.Message
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
