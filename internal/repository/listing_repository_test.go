package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tharun06x/team-chanchal/internal/model"
	"gorm.io/gorm"
)

func seedListing(t *testing.T, repo ListingRepository, title string, price uint, category model.Category, expiresAt time.Time) *model.Listing {
	t.Helper()
	listing := &model.Listing{
		Title:       title,
		Description: "test listing",
		Price:       price,
		Category:    category,
		Condition:   model.ConditionUsedGood,
		Status:      model.StatusActive,
		SellerUID:   "seller-1",
		SellerName:  "Seller",
		ExpiresAt:   expiresAt,
		Images: []model.ListingImage{
			{ImageURL: "https://img.example/" + title + "/1", Position: 0},
			{ImageURL: "https://img.example/" + title + "/2", Position: 1},
		},
	}
	require.NoError(t, repo.Create(context.Background(), listing))
	return listing
}

func TestListActive_PriceSort(t *testing.T) {
	repo := NewListingRepository(newTestDB(t))
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	seedListing(t, repo, "mid", 500, model.CategoryBooks, future)
	seedListing(t, repo, "cheap", 100, model.CategoryBooks, future)
	seedListing(t, repo, "pricey", 300, model.CategoryBooks, future)

	got, err := repo.ListActive(ctx, "", SortPriceLow)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []uint{100, 300, 500}, []uint{got[0].Price, got[1].Price, got[2].Price})

	got, err = repo.ListActive(ctx, "", SortPriceHigh)
	require.NoError(t, err)
	require.Equal(t, []uint{500, 300, 100}, []uint{got[0].Price, got[1].Price, got[2].Price})
}

func TestListActive_CategoryFilterAndStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	seedListing(t, repo, "phone", 900, model.CategoryElectronics, future)
	book := seedListing(t, repo, "novel", 200, model.CategoryBooks, future)
	expired := seedListing(t, repo, "old phone", 100, model.CategoryElectronics, future)
	require.NoError(t, db.Model(&model.Listing{}).Where("id = ?", expired.ID).Update("status", model.StatusExpired).Error)

	got, err := repo.ListActive(ctx, model.CategoryElectronics, SortNewest)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "phone", got[0].Title)

	got, err = repo.ListActive(ctx, model.CategoryBooks, SortNewest)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, book.ID, got[0].ID)
	require.Equal(t, []string{"https://img.example/novel/1", "https://img.example/novel/2"}, got[0].ImageURLs())
}

func TestDelete_RemovesListingAndImages(t *testing.T) {
	db := newTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	listing := seedListing(t, repo, "gone", 50, model.CategoryOther, time.Now().Add(time.Hour))
	require.NoError(t, repo.Delete(ctx, listing.ID))

	_, err := repo.FindByID(ctx, listing.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var imgCount int64
	require.NoError(t, db.Model(&model.ListingImage{}).Where("listing_id = ?", listing.ID).Count(&imgCount).Error)
	require.Zero(t, imgCount)
}

func TestExpireDue_FlipsOnlyOverdueListings(t *testing.T) {
	repo := NewListingRepository(newTestDB(t))
	ctx := context.Background()

	overdue := seedListing(t, repo, "overdue", 10, model.CategoryOther, time.Now().Add(-time.Minute))
	fresh := seedListing(t, repo, "fresh", 10, model.CategoryOther, time.Now().Add(time.Hour))

	ids, err := repo.ExpireDue(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, []uint64{overdue.ID}, ids)

	got, err := repo.FindByID(ctx, overdue.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusExpired, got.Status)

	got, err = repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, got.Status)

	// Second sweep is a no-op.
	ids, err = repo.ExpireDue(ctx, time.Now())
	require.NoError(t, err)
	require.Empty(t, ids)
}
