package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/tharun06x/team-chanchal/internal/model"
	"github.com/tharun06x/team-chanchal/internal/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type UpsertUserRequest struct {
	UID           string  `json:"uid"`
	Email         string  `json:"email"`
	DisplayName   string  `json:"displayName"`
	PhotoURL      *string `json:"photoURL"`
	CollegeDomain string  `json:"collegeDomain"`
}

type UserResponse struct {
	UID           string  `json:"uid"`
	Email         string  `json:"email"`
	DisplayName   string  `json:"displayName"`
	PhotoURL      *string `json:"photoURL"`
	CollegeDomain string  `json:"collegeDomain"`
	CreatedAt     string  `json:"createdAt"`
}

// Upsert syncs the profile on login: create on first sight, update after.
func (h *UserHandler) Upsert(c echo.Context) error {
	var req UpsertUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if uid, _ := c.Get("uid").(string); uid != "" && uid != req.UID {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "uid does not match authenticated user"))
	}

	user, err := h.svc.Upsert(c.Request().Context(), model.User{
		UID:           req.UID,
		Email:         req.Email,
		DisplayName:   req.DisplayName,
		PhotoURL:      req.PhotoURL,
		CollegeDomain: req.CollegeDomain,
	})
	if err != nil {
		if service.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		log.WithError(err).Error("failed to sync user")
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to sync user"))
	}
	return c.JSON(http.StatusOK, UserResponse{
		UID:           user.UID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		PhotoURL:      user.PhotoURL,
		CollegeDomain: user.CollegeDomain,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
	})
}
