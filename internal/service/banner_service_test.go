package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/velora-next/internal/constants"
	"github.com/velora-next/internal/models"
	"github.com/velora-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupBannerServiceTest(t *testing.T) (*BannerService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:banner_service_test_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Banner{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewBannerService(repository.NewBannerRepository(db)), db
}

func TestNormalizeBannerPosition(t *testing.T) {
	if got := normalizeBannerPosition(constants.BannerPositionLook); got != constants.BannerPositionLook {
		t.Fatalf("look position must pass through, got %s", got)
	}
	for _, raw := range []string{"", "  ", "unknown", constants.BannerPositionHome} {
		if got := normalizeBannerPosition(raw); got != constants.BannerPositionHome {
			t.Fatalf("position %q must normalize to home, got %s", raw, got)
		}
	}
}

func TestListPublicHonorsValidityWindow(t *testing.T) {
	svc, db := setupBannerServiceTest(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	banners := []models.Banner{
		{Name: "live", Position: constants.BannerPositionHome, Image: "live.jpg", IsActive: true},
		{Name: "scheduled", Position: constants.BannerPositionHome, Image: "soon.jpg", IsActive: true, StartAt: &future},
		{Name: "expired", Position: constants.BannerPositionHome, Image: "old.jpg", IsActive: true, EndAt: &past},
		{Name: "disabled", Position: constants.BannerPositionHome, Image: "off.jpg", IsActive: false},
		{Name: "other-slot", Position: constants.BannerPositionLook, Image: "look.jpg", IsActive: true},
	}
	for i := range banners {
		if err := db.Create(&banners[i]).Error; err != nil {
			t.Fatalf("create banner failed: %v", err)
		}
	}

	got, err := svc.ListPublic(constants.BannerPositionHome, 10)
	if err != nil {
		t.Fatalf("ListPublic error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "live" {
		t.Fatalf("expected only live banner, got %d banners", len(got))
	}

	look, err := svc.ListPublic(constants.BannerPositionLook, 10)
	if err != nil {
		t.Fatalf("ListPublic error: %v", err)
	}
	if len(look) != 1 || look[0].Name != "other-slot" {
		t.Fatalf("expected only look-slot banner, got %d banners", len(look))
	}
}
