package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
)

// FeaturedWithoutPriceMessage rejects featuring a free package.
const FeaturedWithoutPriceMessage = "A package needs a price greater than zero before it can be featured."

// PackageFlags is the slice of package state the uniqueness invariants are
// planned over.
type PackageFlags struct {
	ID            string
	Name          string
	IsRecommended bool
	IsFeatured    bool
	Price         float64
	UpdatedAt     time.Time
}

// PlanRecommendedClear returns the ids whose isRecommended flag must be
// cleared in the same transaction that marks touchedID recommended, so at
// most one package per service carries the flag.
func PlanRecommendedClear(pkgs []PackageFlags, touchedID string) []string {
	var clear []string
	for _, p := range pkgs {
		if p.ID != touchedID && p.IsRecommended {
			clear = append(clear, p.ID)
		}
	}
	return clear
}

// CheckFeaturedPrice gates isFeaturedOnLanding on a strictly positive price.
func CheckFeaturedPrice(price float64) *models.OpResult {
	if price <= 0 {
		return models.RejectResult(FeaturedWithoutPriceMessage, map[string]string{
			"isFeaturedOnLanding": FeaturedWithoutPriceMessage,
		})
	}
	return nil
}

// PlanFeaturedDemotions returns the packages to unfeature after a change
// that could grow the featured set: the oldest-updated overflow, never the
// one just touched, until the count equals MaxFeaturedPackages. pkgs must
// reflect post-change flags.
func PlanFeaturedDemotions(pkgs []PackageFlags, touchedID string) []PackageFlags {
	var featured []PackageFlags
	for _, p := range pkgs {
		if p.IsFeatured {
			featured = append(featured, p)
		}
	}

	overflow := len(featured) - models.MaxFeaturedPackages
	if overflow <= 0 {
		return nil
	}

	var candidates []PackageFlags
	for _, p := range featured {
		if p.ID != touchedID {
			candidates = append(candidates, p)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].UpdatedAt.Before(candidates[j].UpdatedAt)
	})

	if overflow > len(candidates) {
		overflow = len(candidates)
	}
	return candidates[:overflow]
}

// CheckFeatureCap rejects feature-list mutations that would push the list
// past MaxPackageFeatures.
func CheckFeatureCap(resultingCount int) *models.OpResult {
	if resultingCount > models.MaxPackageFeatures {
		msg := fmt.Sprintf("A package can hold at most %d features.", models.MaxPackageFeatures)
		return models.RejectResult(msg, map[string]string{
			"features": msg,
		})
	}
	return nil
}
