package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/tharun06x/team-chanchal/internal/model"
	"github.com/tharun06x/team-chanchal/internal/service"
)

type ConversationHandler struct {
	svc service.ConversationService
}

func NewConversationHandler(svc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

type CreateConversationRequest struct {
	SenderID      string  `json:"senderId"`
	SenderName    string  `json:"senderName"`
	SenderPhoto   *string `json:"senderPhoto"`
	ReceiverID    string  `json:"receiverId"`
	ReceiverName  string  `json:"receiverName"`
	ReceiverPhoto *string `json:"receiverPhoto"`
	ListingID     uint64  `json:"listingId"`
	ListingTitle  string  `json:"listingTitle"`
}

type ConversationResponse struct {
	ID                   uint64              `json:"id"`
	Participants         []model.Participant `json:"participants"`
	ListingID            uint64              `json:"listingId"`
	ListingTitle         string              `json:"listingTitle"`
	LastMessage          string              `json:"lastMessage"`
	LastMessageBy        string              `json:"lastMessageBy"`
	LastMessageTimestamp *string             `json:"lastMessageTimestamp"`
	CreatedAt            string              `json:"createdAt"`
}

func toConversationResponse(cv *model.Conversation) ConversationResponse {
	var lastAt *string
	if cv.LastMessageAt != nil {
		s := cv.LastMessageAt.Format(time.RFC3339)
		lastAt = &s
	}
	return ConversationResponse{
		ID:                   cv.ID,
		Participants:         cv.Participants(),
		ListingID:            cv.ListingID,
		ListingTitle:         cv.ListingTitle,
		LastMessage:          cv.LastMessageText,
		LastMessageBy:        cv.LastMessageSenderUID,
		LastMessageTimestamp: lastAt,
		CreatedAt:            cv.CreatedAt.Format(time.RFC3339),
	}
}

// Create finds or creates the conversation for a participant pair.
// Returns 201 only when a new conversation was created.
func (h *ConversationHandler) Create(c echo.Context) error {
	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if uid, _ := c.Get("uid").(string); uid != "" && uid != req.SenderID {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "senderId does not match authenticated user"))
	}

	cv, created, err := h.svc.FindOrCreate(c.Request().Context(), service.FindOrCreateInput{
		Sender:       model.Participant{UID: req.SenderID, DisplayName: req.SenderName, PhotoURL: req.SenderPhoto},
		Receiver:     model.Participant{UID: req.ReceiverID, DisplayName: req.ReceiverName, PhotoURL: req.ReceiverPhoto},
		ListingID:    req.ListingID,
		ListingTitle: req.ListingTitle,
	})
	if err != nil {
		if service.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		log.WithError(err).Error("failed to find or create conversation")
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to start conversation"))
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, toConversationResponse(cv))
}

// ListForUser returns the user's conversations, most recently active
// first. Storage failures degrade to an empty list.
func (h *ConversationHandler) ListForUser(c echo.Context) error {
	userID := c.Param("userId")
	convs, err := h.svc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		if service.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		log.WithError(err).WithField("user_id", userID).Warn("failed to fetch conversations, returning empty result")
		return c.JSON(http.StatusOK, []ConversationResponse{})
	}
	resp := make([]ConversationResponse, 0, len(convs))
	for i := range convs {
		resp = append(resp, toConversationResponse(&convs[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

type SendMessageRequest struct {
	ConversationID uint64 `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Text           string `json:"text"`
}

type MessageResponse struct {
	ID             uint64 `json:"id"`
	ConversationID uint64 `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Text           string `json:"text"`
	Timestamp      string `json:"timestamp"`
}

func toMessageResponse(m *model.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderUID,
		Text:           m.Text,
		Timestamp:      m.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if uid, _ := c.Get("uid").(string); uid != "" && uid != req.SenderID {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "senderId does not match authenticated user"))
	}

	msg, err := h.svc.AppendMessage(c.Request().Context(), req.ConversationID, req.SenderID, req.Text)
	if err != nil {
		switch {
		case service.IsValidation(err):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		case err == service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case err == service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		log.WithError(err).Error("failed to send message")
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to send message"))
	}
	return c.JSON(http.StatusCreated, toMessageResponse(msg))
}

// ListMessages returns a conversation's messages oldest first. The
// optional after/limit query params page by (id) keyset. A storage failure
// degrades to an empty list; an unknown conversation is still a 404.
func (h *ConversationHandler) ListMessages(c echo.Context) error {
	convID, err := strconv.ParseUint(c.Param("conversationId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	afterID, _ := strconv.ParseUint(c.QueryParam("after"), 10, 64)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	msgs, err := h.svc.ListMessages(c.Request().Context(), convID, afterID, limit)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		}
		log.WithError(err).WithField("conversation_id", convID).Warn("failed to fetch messages, returning empty result")
		return c.JSON(http.StatusOK, []MessageResponse{})
	}
	resp := make([]MessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, toMessageResponse(&msgs[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
