package service

import (
	"strings"

	"github.com/velora-next/internal/models"
	"github.com/velora-next/internal/repository"
)

const (
	defaultProductPageSize = 20
	maxProductPageSize     = 100
)

// ProductService 商品浏览服务（只读，薄封装）
type ProductService struct {
	productRepo   repository.ProductRepository
	variationRepo repository.VariationRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, variationRepo repository.VariationRepository) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		variationRepo: variationRepo,
	}
}

// List 商品列表（仅上架商品）
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultProductPageSize
	}
	if filter.PageSize > maxProductPageSize {
		filter.PageSize = maxProductPageSize
	}
	filter.OnlyActive = true
	filter.WithVariations = true
	return s.productRepo.List(filter)
}

// GetBySlug 商品详情（含全部规格与图片）
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	variations, err := s.variationRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	product.Variations = variations
	return product, nil
}
