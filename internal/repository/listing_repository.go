package repository

import (
	"context"
	"time"

	"github.com/tharun06x/team-chanchal/internal/model"
	"gorm.io/gorm"
)

// ListingSort selects the ordering of List results.
type ListingSort string

const (
	SortNewest    ListingSort = "newest"
	SortPriceLow  ListingSort = "price_low"
	SortPriceHigh ListingSort = "price_high"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id uint64) (*model.Listing, error)
	// ListActive returns active listings, optionally filtered by category,
	// in the requested order.
	ListActive(ctx context.Context, category model.Category, sort ListingSort) ([]model.Listing, error)
	Delete(ctx context.Context, id uint64) error
	// ExpireDue flips active listings whose expires_at has passed to
	// expired and returns the affected ids.
	ExpireDue(ctx context.Context, now time.Time) ([]uint64, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	// Images are saved through the association in the same transaction.
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) ListActive(ctx context.Context, category model.Category, sort ListingSort) ([]model.Listing, error) {
	q := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("status = ?", model.StatusActive)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	switch sort {
	case SortPriceLow:
		q = q.Order("price ASC, id ASC")
	case SortPriceHigh:
		q = q.Order("price DESC, id ASC")
	default:
		q = q.Order("created_at DESC, id DESC")
	}
	var listings []model.Listing
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&model.ListingImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Listing{}, id).Error
	})
}

func (r *listingRepository) ExpireDue(ctx context.Context, now time.Time) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Listing{}).
			Where("status = ? AND expires_at < ?", model.StatusActive, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&model.Listing{}).
			Where("id IN ?", ids).
			Update("status", model.StatusExpired).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
