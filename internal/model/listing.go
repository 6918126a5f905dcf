package model

import "time"

// Listing is an item for sale. Seller fields are a denormalized snapshot
// taken at creation so list pages render without a join.
type Listing struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"size:120;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Price       uint           `gorm:"not null" json:"price"`
	Category    Category       `gorm:"size:40;not null;index" json:"category"`
	Condition   Condition      `gorm:"size:40;not null" json:"condition"`
	Status      ListingStatus  `gorm:"size:16;not null;default:active;index" json:"status"`
	SellerUID   string         `gorm:"column:seller_uid;size:128;not null;index" json:"sellerId"`
	SellerName  string         `gorm:"size:120" json:"sellerName"`
	SellerPhoto *string        `gorm:"size:512" json:"sellerPhoto"`
	Images      []ListingImage `gorm:"foreignKey:ListingID" json:"-"`
	ExpiresAt   time.Time      `gorm:"index" json:"expiresAt"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "listings"
}

// ImageURLs returns the image URLs in upload order.
func (l *Listing) ImageURLs() []string {
	urls := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		urls = append(urls, img.ImageURL)
	}
	return urls
}
