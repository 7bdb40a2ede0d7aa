package service

import (
	"strings"
	"time"

	"github.com/velora-next/internal/constants"
	"github.com/velora-next/internal/models"
	"github.com/velora-next/internal/repository"
)

// BannerService Banner 展示服务
type BannerService struct {
	repo repository.BannerRepository
}

// NewBannerService 创建 Banner 服务
func NewBannerService(repo repository.BannerRepository) *BannerService {
	return &BannerService{repo: repo}
}

// ListPublic 获取指定位置当前有效的 Banner
func (s *BannerService) ListPublic(position string, limit int) ([]models.Banner, error) {
	normalized := normalizeBannerPosition(position)
	return s.repo.ListValidByPosition(normalized, limit, time.Now())
}

func normalizeBannerPosition(raw string) string {
	value := strings.TrimSpace(raw)
	switch value {
	case constants.BannerPositionLook:
		return constants.BannerPositionLook
	default:
		return constants.BannerPositionHome
	}
}
