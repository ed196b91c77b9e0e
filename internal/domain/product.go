package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductCategory string

const (
	CategoryTops        ProductCategory = "tops"
	CategoryBottoms     ProductCategory = "bottoms"
	CategoryAccessories ProductCategory = "accessories"
)

var validCategories = map[ProductCategory]struct{}{
	CategoryTops:        {},
	CategoryBottoms:     {},
	CategoryAccessories: {},
}

func ToProductCategory(s string) (ProductCategory, error) {
	c := ProductCategory(s)
	if _, ok := validCategories[c]; ok {
		return c, nil
	}
	return "", errors.New("invalid product category")
}

func ProductCategories() []ProductCategory {
	result := make([]ProductCategory, 0, len(validCategories))
	for c := range validCategories {
		result = append(result, c)
	}
	return result
}

// Product is a catalog entry. Price is in whole currency units.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SKU         string             `bson:"sku" json:"sku"`
	Name        string             `bson:"name" json:"name"`
	Price       int64              `bson:"price" json:"price"`
	Category    ProductCategory    `bson:"category" json:"category"`
	Image       string             `bson:"image" json:"image"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
