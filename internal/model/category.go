package model

// Category values match what the web client sends verbatim.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryBooks       Category = "Books"
	CategoryFurniture   Category = "Furniture"
	CategoryClothing    Category = "Clothing"
	CategorySports      Category = "Sports"
	CategoryOther       Category = "Other"
)

var categories = map[Category]bool{
	CategoryElectronics: true,
	CategoryBooks:       true,
	CategoryFurniture:   true,
	CategoryClothing:    true,
	CategorySports:      true,
	CategoryOther:       true,
}

func (c Category) Valid() bool {
	return categories[c]
}

// Condition of a listed item.
type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionUsedLikeNew Condition = "Used - Like New"
	ConditionUsedGood    Condition = "Used - Good"
	ConditionUsedFair    Condition = "Used - Fair"
)

var conditions = map[Condition]bool{
	ConditionNew:         true,
	ConditionUsedLikeNew: true,
	ConditionUsedGood:    true,
	ConditionUsedFair:    true,
}

func (c Condition) Valid() bool {
	return conditions[c]
}

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	StatusActive  ListingStatus = "active"
	StatusExpired ListingStatus = "expired"
)
