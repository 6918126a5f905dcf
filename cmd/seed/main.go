package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/tharun06x/team-chanchal/internal/config"
	"github.com/tharun06x/team-chanchal/internal/db"
	"github.com/tharun06x/team-chanchal/internal/model"
)

type seedListing struct {
	Title       string
	Description string
	Price       uint
	Category    model.Category
	Condition   model.Condition
	SellerUID   string
	SellerName  string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(
		&model.User{},
		&model.Listing{},
		&model.ListingImage{},
		&model.Conversation{},
		&model.Message{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var count int64
	if err := gdb.WithContext(ctx).Model(&model.Listing{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count listings: %w", err)
	}
	if count > 0 && os.Getenv("FORCE_SEED") != "true" {
		log.Printf("listings already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	now := time.Now()
	for i, sl := range buildSeedListings() {
		listing := model.Listing{
			Title:       sl.Title,
			Description: sl.Description,
			Price:       sl.Price,
			Category:    sl.Category,
			Condition:   sl.Condition,
			Status:      model.StatusActive,
			SellerUID:   sl.SellerUID,
			SellerName:  sl.SellerName,
			ExpiresAt:   now.Add(cfg.ListingTTL),
			Images: []model.ListingImage{
				{ImageURL: fmt.Sprintf("https://picsum.photos/seed/listing-%d/640/480", i+1), Position: 0},
			},
		}
		if err := gdb.WithContext(ctx).Create(&listing).Error; err != nil {
			return fmt.Errorf("insert listing %q: %w", sl.Title, err)
		}
	}
	log.Printf("seeded %d listings", len(buildSeedListings()))
	return nil
}

func buildSeedListings() []seedListing {
	return []seedListing{
		{"Scientific Calculator FX-991", "Barely used, all keys working. Perfect for engineering exams.", 600, model.CategoryElectronics, model.ConditionUsedLikeNew, "seed-user-1", "Arjun"},
		{"Data Structures Textbook", "Cormen 3rd edition, some highlighting in early chapters.", 350, model.CategoryBooks, model.ConditionUsedGood, "seed-user-1", "Arjun"},
		{"Study Table", "Solid wood table, pickup from hostel block C.", 1200, model.CategoryFurniture, model.ConditionUsedFair, "seed-user-2", "Meera"},
		{"Badminton Racket", "Yonex, restrung last month, comes with cover.", 800, model.CategorySports, model.ConditionUsedGood, "seed-user-2", "Meera"},
		{"Lab Coat (M)", "Worn for one semester, freshly washed.", 150, model.CategoryClothing, model.ConditionUsedLikeNew, "seed-user-3", "Rahul"},
		{"USB-C Hub", "7-in-1 hub, HDMI tested up to 4K.", 900, model.CategoryElectronics, model.ConditionNew, "seed-user-3", "Rahul"},
	}
}
