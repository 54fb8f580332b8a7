package service

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
)

func TestPlanRecommendedClear(t *testing.T) {
	pkgs := []PackageFlags{
		{ID: "p1", IsRecommended: true},
		{ID: "p2", IsRecommended: false},
		{ID: "p3", IsRecommended: true},
	}

	clear := PlanRecommendedClear(pkgs, "p2")
	if !reflect.DeepEqual(clear, []string{"p1", "p3"}) {
		t.Errorf("clear = %v, want [p1 p3]", clear)
	}

	// the touched package itself is never cleared
	clear = PlanRecommendedClear(pkgs, "p1")
	if !reflect.DeepEqual(clear, []string{"p3"}) {
		t.Errorf("clear = %v, want [p3]", clear)
	}
}

func TestCheckFeaturedPrice(t *testing.T) {
	if reject := CheckFeaturedPrice(0); reject == nil {
		t.Error("zero price accepted for featuring")
	}
	if reject := CheckFeaturedPrice(-10); reject == nil {
		t.Error("negative price accepted for featuring")
	}
	if reject := CheckFeaturedPrice(49.99); reject != nil {
		t.Errorf("positive price rejected: %v", reject.Message)
	}

	reject := CheckFeaturedPrice(0)
	if reject.FieldErrors["isFeaturedOnLanding"] == "" {
		t.Errorf("fieldErrors = %v, want isFeaturedOnLanding set", reject.FieldErrors)
	}
}

func TestPlanFeaturedDemotions(t *testing.T) {
	at := func(day int) time.Time {
		return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
	}

	t.Run("under the cap nothing demotes", func(t *testing.T) {
		pkgs := []PackageFlags{
			{ID: "p1", IsFeatured: true, UpdatedAt: at(1)},
			{ID: "p2", IsFeatured: true, UpdatedAt: at(2)},
			{ID: "p3", IsFeatured: false, UpdatedAt: at(3)},
		}
		if demote := PlanFeaturedDemotions(pkgs, "p2"); demote != nil {
			t.Errorf("demotions = %v, want none", demote)
		}
	})

	t.Run("fourth featured demotes the oldest updated, never the touched one", func(t *testing.T) {
		pkgs := []PackageFlags{
			{ID: "p1", Name: "Starter", IsFeatured: true, UpdatedAt: at(1)}, // oldest
			{ID: "p2", Name: "Growth", IsFeatured: true, UpdatedAt: at(5)},
			{ID: "p3", Name: "Scale", IsFeatured: true, UpdatedAt: at(3)},
			{ID: "p4", Name: "Custom", IsFeatured: true, UpdatedAt: at(2)}, // just touched
		}
		demote := PlanFeaturedDemotions(pkgs, "p4")
		if len(demote) != 1 {
			t.Fatalf("demotions = %v, want exactly one", demote)
		}
		if demote[0].ID != "p1" {
			t.Errorf("demoted %s, want p1 (least recently updated)", demote[0].ID)
		}
	})

	t.Run("touched package survives even when oldest", func(t *testing.T) {
		pkgs := []PackageFlags{
			{ID: "p1", IsFeatured: true, UpdatedAt: at(1)}, // oldest but touched
			{ID: "p2", IsFeatured: true, UpdatedAt: at(2)},
			{ID: "p3", IsFeatured: true, UpdatedAt: at(3)},
			{ID: "p4", IsFeatured: true, UpdatedAt: at(4)},
		}
		demote := PlanFeaturedDemotions(pkgs, "p1")
		if len(demote) != 1 || demote[0].ID != "p2" {
			t.Errorf("demotions = %v, want [p2]", demote)
		}
	})

	t.Run("larger overflow demotes until the cap", func(t *testing.T) {
		pkgs := []PackageFlags{
			{ID: "p1", IsFeatured: true, UpdatedAt: at(1)},
			{ID: "p2", IsFeatured: true, UpdatedAt: at(2)},
			{ID: "p3", IsFeatured: true, UpdatedAt: at(3)},
			{ID: "p4", IsFeatured: true, UpdatedAt: at(4)},
			{ID: "p5", IsFeatured: true, UpdatedAt: at(5)},
		}
		demote := PlanFeaturedDemotions(pkgs, "p5")
		if len(demote) != 2 {
			t.Fatalf("demotions = %v, want two", demote)
		}
		if demote[0].ID != "p1" || demote[1].ID != "p2" {
			t.Errorf("demoted %s,%s, want p1,p2", demote[0].ID, demote[1].ID)
		}
	})
}

func TestCheckFeatureCap(t *testing.T) {
	if reject := CheckFeatureCap(models.MaxPackageFeatures); reject != nil {
		t.Errorf("%d features rejected: %v", models.MaxPackageFeatures, reject.Message)
	}

	reject := CheckFeatureCap(models.MaxPackageFeatures + 1)
	if reject == nil {
		t.Fatal("count past the cap accepted")
	}
	want := fmt.Sprintf("A package can hold at most %d features.", models.MaxPackageFeatures)
	if reject.Message != want {
		t.Errorf("message = %q, want the configured cap spelled out", reject.Message)
	}
}
