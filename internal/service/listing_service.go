package service

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tharun06x/team-chanchal/internal/cache"
	"github.com/tharun06x/team-chanchal/internal/model"
	"github.com/tharun06x/team-chanchal/internal/repository"
	"gorm.io/gorm"
)

type CreateListingInput struct {
	Title       string
	Description string
	Price       uint
	Category    model.Category
	Condition   model.Condition
	SellerUID   string
	SellerName  string
	SellerPhoto *string
	ImageURLs   []string
}

type ListingService interface {
	Create(ctx context.Context, in CreateListingInput) (*model.Listing, error)
	Get(ctx context.Context, id uint64) (*model.Listing, error)
	List(ctx context.Context, category model.Category, sort repository.ListingSort) ([]model.Listing, error)
	// Delete removes a listing. A non-empty requesterUID must match the
	// seller; an empty one means the caller is unauthenticated (open mode)
	// and the check is skipped.
	Delete(ctx context.Context, id uint64, requesterUID string) error
}

type listingService struct {
	repo  repository.ListingRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewListingService(repo repository.ListingRepository, c *cache.Cache, ttl time.Duration) ListingService {
	return &listingService{repo: repo, cache: c, ttl: ttl}
}

func (s *listingService) Create(ctx context.Context, in CreateListingInput) (*model.Listing, error) {
	if in.Title == "" || len(in.Title) > 120 {
		return nil, validationErr("invalid title")
	}
	if in.Description == "" {
		return nil, validationErr("invalid description")
	}
	if !in.Category.Valid() {
		return nil, validationErr("invalid category")
	}
	if !in.Condition.Valid() {
		return nil, validationErr("invalid condition")
	}
	if in.SellerUID == "" {
		return nil, validationErr("sellerId is required")
	}

	now := time.Now()
	listing := &model.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Condition:   in.Condition,
		Status:      model.StatusActive,
		SellerUID:   in.SellerUID,
		SellerName:  in.SellerName,
		SellerPhoto: in.SellerPhoto,
		ExpiresAt:   now.Add(s.ttl),
	}
	for i, url := range in.ImageURLs {
		listing.Images = append(listing.Images, model.ListingImage{ImageURL: url, Position: i})
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) Get(ctx context.Context, id uint64) (*model.Listing, error) {
	if cached, err := s.cache.GetListing(ctx, id); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.WithError(err).WithField("listing_id", id).Warn("listing cache read failed")
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.cache.SetListing(ctx, listing); err != nil {
		log.WithError(err).WithField("listing_id", id).Warn("listing cache write failed")
	}
	return listing, nil
}

func (s *listingService) List(ctx context.Context, category model.Category, sort repository.ListingSort) ([]model.Listing, error) {
	if category != "" && !category.Valid() {
		return nil, validationErr("invalid category")
	}
	return s.repo.ListActive(ctx, category, sort)
}

func (s *listingService) Delete(ctx context.Context, id uint64, requesterUID string) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if requesterUID != "" && listing.SellerUID != requesterUID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.InvalidateListing(ctx, id); err != nil {
		log.WithError(err).WithField("listing_id", id).Warn("listing cache invalidation failed")
	}
	return nil
}
