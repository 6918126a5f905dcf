package service

import (
	"context"
	"strings"

	"github.com/tharun06x/team-chanchal/internal/model"
	"github.com/tharun06x/team-chanchal/internal/repository"
)

type UserService interface {
	// Upsert records a login: first login creates the profile, later
	// logins update it in place.
	Upsert(ctx context.Context, user model.User) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Upsert(ctx context.Context, user model.User) (*model.User, error) {
	if user.UID == "" {
		return nil, validationErr("uid is required")
	}
	if user.CollegeDomain == "" {
		if at := strings.LastIndex(user.Email, "@"); at >= 0 {
			user.CollegeDomain = user.Email[at+1:]
		}
	}
	if err := s.repo.Upsert(ctx, &user); err != nil {
		return nil, err
	}
	// Re-read so CreatedAt reflects the original first login.
	return s.repo.FindByUID(ctx, user.UID)
}
