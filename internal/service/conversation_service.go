package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tharun06x/team-chanchal/internal/model"
	"github.com/tharun06x/team-chanchal/internal/repository"
	"gorm.io/gorm"
)

// FindOrCreateInput carries the participant snapshots and listing context
// for a find-or-create call. Names and photos are only used when the
// conversation does not exist yet.
type FindOrCreateInput struct {
	Sender       model.Participant
	Receiver     model.Participant
	ListingID    uint64
	ListingTitle string
}

type ConversationService interface {
	// FindOrCreate returns the one conversation for the unordered pair
	// {sender, receiver}, creating it on first contact. When the stored
	// listing context differs from the request's, it is overwritten (last
	// write wins). The conversation follows the pair, not the listing.
	FindOrCreate(ctx context.Context, in FindOrCreateInput) (*model.Conversation, bool, error)
	ListByUser(ctx context.Context, uid string) ([]model.Conversation, error)

	// AppendMessage adds an immutable message with a server-assigned
	// timestamp and brings the conversation summary along in the same
	// transaction.
	AppendMessage(ctx context.Context, convID uint64, senderUID, text string) (*model.Message, error)
	ListMessages(ctx context.Context, convID, afterID uint64, limit int) ([]model.Message, error)
}

type conversationService struct {
	repo repository.ConversationRepository
}

func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

func (s *conversationService) FindOrCreate(ctx context.Context, in FindOrCreateInput) (*model.Conversation, bool, error) {
	if in.Sender.UID == "" || in.Receiver.UID == "" {
		return nil, false, validationErr("senderId and receiverId are required")
	}
	if in.Sender.UID == in.Receiver.UID {
		return nil, false, validationErr("cannot chat with yourself")
	}

	cv := &model.Conversation{
		ListingID:    in.ListingID,
		ListingTitle: in.ListingTitle,
	}
	cv.SetParticipants(in.Sender, in.Receiver)

	cv, created, err := s.repo.FindOrCreate(ctx, cv)
	if err != nil {
		return nil, false, err
	}
	if !created && cv.ListingID != in.ListingID {
		if err := s.repo.UpdateListingContext(ctx, cv.ID, in.ListingID, in.ListingTitle); err != nil {
			return nil, false, err
		}
		cv.ListingID = in.ListingID
		cv.ListingTitle = in.ListingTitle
	}
	return cv, created, nil
}

func (s *conversationService) ListByUser(ctx context.Context, uid string) ([]model.Conversation, error) {
	if uid == "" {
		return nil, validationErr("userId is required")
	}
	return s.repo.ListByUser(ctx, uid)
}

func (s *conversationService) AppendMessage(ctx context.Context, convID uint64, senderUID, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationErr("text is required")
	}
	cv, err := s.repo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !cv.HasParticipant(senderUID) {
		return nil, ErrForbidden
	}
	msg := &model.Message{
		ConversationID: convID,
		SenderUID:      senderUID,
		Text:           text,
	}
	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *conversationService) ListMessages(ctx context.Context, convID, afterID uint64, limit int) ([]model.Message, error) {
	if _, err := s.repo.FindByID(ctx, convID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repo.ListMessages(ctx, convID, afterID, limit)
}
