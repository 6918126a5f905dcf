package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tharun06x/team-chanchal/internal/model"
)

const (
	listingKeyPrefix = "listing:"

	// DefaultListingTTL bounds staleness of cached listings; deletes and
	// expiry sweeps invalidate eagerly anyway.
	DefaultListingTTL = 15 * time.Minute
)

var ErrCacheMiss = errors.New("cache miss")

func listingKey(id uint64) string {
	return listingKeyPrefix + strconv.FormatUint(id, 10)
}

// cachedListing carries the image rows explicitly because the model hides
// them from API JSON.
type cachedListing struct {
	Listing model.Listing        `json:"listing"`
	Images  []model.ListingImage `json:"images"`
}

// GetListing retrieves a cached listing by id. Returns ErrCacheMiss when
// absent or when the cache is not configured.
func (c *Cache) GetListing(ctx context.Context, id uint64) (*model.Listing, error) {
	if c == nil {
		return nil, ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var entry cachedListing
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("corrupt cache entry: %w", err)
	}
	listing := entry.Listing
	listing.Images = entry.Images
	return &listing, nil
}

// SetListing stores a listing under its id.
func (c *Cache) SetListing(ctx context.Context, listing *model.Listing) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(cachedListing{Listing: *listing, Images: listing.Images})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKey(listing.ID), raw, DefaultListingTTL).Err()
}

// InvalidateListing drops the cached entry for id.
func (c *Cache) InvalidateListing(ctx context.Context, id uint64) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, listingKey(id)).Err()
}
