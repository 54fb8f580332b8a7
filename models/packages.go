package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MaxFeaturedPackages caps how many packages per service may be featured
	// on the landing page.
	MaxFeaturedPackages = 3
	// MaxPackageFeatures caps the feature list length of one package.
	MaxPackageFeatures = 12
)

// Service is a catalog offering that owns an ordered list of pricing
// packages. Independent of leads and projects.
type Service struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ServicePackage is one pricing tier of a service. Within one service at most
// one package is recommended and at most MaxFeaturedPackages are featured.
type ServicePackage struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ServiceID           string             `bson:"serviceId" json:"serviceId"`
	Name                string             `bson:"name" json:"name"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	Price               float64            `bson:"price" json:"price"`
	IsRecommended       bool               `bson:"isRecommended" json:"isRecommended"`
	IsFeaturedOnLanding bool               `bson:"isFeaturedOnLanding" json:"isFeaturedOnLanding"`
	Features            []PackageItem      `bson:"features,omitempty" json:"features,omitempty"`
	SortOrder           int                `bson:"sortOrder" json:"sortOrder"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PackageItem is one feature line embedded in a package.
type PackageItem struct {
	ID        string `bson:"id" json:"id"` // uuid
	Label     string `bson:"label" json:"label"`
	SortOrder int    `bson:"sortOrder" json:"sortOrder"`
}

// Catalog request shapes.
type (
	// ServiceCreateRequest service payload
	ServiceCreateRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	// PackageCreateRequest new pricing tier payload
	PackageCreateRequest struct {
		Name                string  `json:"name" binding:"required"`
		Description         string  `json:"description"`
		Price               float64 `json:"price"`
		IsRecommended       bool    `json:"isRecommended"`
		IsFeaturedOnLanding bool    `json:"isFeaturedOnLanding"`
	}

	// PackageUpdateRequest pricing tier edit payload
	PackageUpdateRequest struct {
		Name                *string  `json:"name"`
		Description         *string  `json:"description"`
		Price               *float64 `json:"price"`
		IsRecommended       *bool    `json:"isRecommended"`
		IsFeaturedOnLanding *bool    `json:"isFeaturedOnLanding"`
	}

	// FeatureCreateRequest feature line payload
	FeatureCreateRequest struct {
		Label string `json:"label" binding:"required"`
	}

	// FeatureUpdateRequest feature line edit payload
	FeatureUpdateRequest struct {
		Label string `json:"label" binding:"required"`
	}
)
