package main

import (
	"github.com/velora-next/internal/config"
	"github.com/velora-next/internal/constants"
	"github.com/velora-next/internal/logger"
	"github.com/velora-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "dresses", Name: "连衣裙", SortOrder: 30},
		{Slug: "tops", Name: "上装", SortOrder: 20},
		{Slug: "accessories", Name: "配饰", SortOrder: 10},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"dresses", "tops", "accessories"}).Find(&categoryList).Error; err != nil {
		stdLog.Fatalf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加商品与规格
	type seedVariation struct {
		Size      string
		Color     string
		Price     int64
		SalePrice int64
		Stock     int
		Images    []string
	}
	type seedProduct struct {
		Slug        string
		Name        string
		Description string
		Category    string
		SortOrder   int
		Variations  []seedVariation
	}

	products := []seedProduct{
		{
			Slug:        "linen-wrap-dress",
			Name:        "亚麻裹身连衣裙",
			Description: "轻盈亚麻面料，夏季通勤两相宜。",
			Category:    "dresses",
			SortOrder:   30,
			Variations: []seedVariation{
				{Size: "S", Color: "White", Price: 299, SalePrice: 239, Stock: 20, Images: []string{"https://img.velora.example/dress-white-1.jpg"}},
				{Size: "M", Color: "White", Price: 299, SalePrice: 239, Stock: 35, Images: []string{"https://img.velora.example/dress-white-1.jpg"}},
				{Size: "M", Color: "Navy", Price: 299, Stock: 15, Images: []string{"https://img.velora.example/dress-navy-1.jpg"}},
			},
		},
		{
			Slug:        "oversized-tee",
			Name:        "廓形棉质T恤",
			Description: "重磅纯棉，落肩廓形。",
			Category:    "tops",
			SortOrder:   20,
			Variations: []seedVariation{
				{Size: "M", Color: "Black", Price: 99, Stock: 80, Images: []string{"https://img.velora.example/tee-black-1.jpg"}},
				{Size: "L", Color: "Black", Price: 99, Stock: 60, Images: []string{"https://img.velora.example/tee-black-1.jpg"}},
			},
		},
		{
			Slug:        "canvas-tote",
			Name:        "帆布托特包",
			Description: "加厚帆布，大容量日常通勤包。",
			Category:    "accessories",
			SortOrder:   10,
			Variations: []seedVariation{
				{Size: "F", Color: "Beige", Price: 129, SalePrice: 99, Stock: 50, Images: []string{"https://img.velora.example/tote-beige-1.jpg"}},
			},
		},
	}

	for _, p := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", p.Slug)
			continue
		}
		product := models.Product{
			CategoryID:  categoryIDs[p.Category],
			Slug:        p.Slug,
			Name:        p.Name,
			Description: p.Description,
			IsActive:    true,
			SortOrder:   p.SortOrder,
		}
		for _, v := range p.Variations {
			variation := models.ProductVariation{
				Size:      v.Size,
				Color:     v.Color,
				Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(v.Price)),
				SalePrice: models.NewMoneyFromDecimal(decimal.NewFromInt(v.SalePrice)),
				Stock:     v.Stock,
			}
			for i, url := range v.Images {
				variation.Images = append(variation.Images, models.VariationImage{
					URL:       url,
					SortOrder: i,
				})
			}
			product.Variations = append(product.Variations, variation)
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", p.Slug, err)
		} else {
			stdLog.Printf("Created product: %s", p.Slug)
		}
	}

	// 添加 Banner
	banners := []models.Banner{
		{
			Name:      "summer-hero",
			Position:  constants.BannerPositionHome,
			Title:     "夏季新品",
			Subtitle:  "亚麻系列全新上架",
			Image:     "https://img.velora.example/banner-summer.jpg",
			LinkType:  constants.BannerLinkCategory,
			LinkValue: "dresses",
			IsActive:  true,
			SortOrder: 10,
		},
		{
			Name:      "look-tote",
			Position:  constants.BannerPositionLook,
			Title:     "通勤穿搭",
			Image:     "https://img.velora.example/banner-look.jpg",
			LinkType:  constants.BannerLinkProduct,
			LinkValue: "canvas-tote",
			IsActive:  true,
			SortOrder: 5,
		},
	}
	for _, b := range banners {
		var existing models.Banner
		if err := models.DB.Where("name = ?", b.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Banner already exists: %s", b.Name)
			continue
		}
		if err := models.DB.Create(&b).Error; err != nil {
			stdLog.Printf("Failed to create banner %s: %v", b.Name, err)
		} else {
			stdLog.Printf("Created banner: %s", b.Name)
		}
	}

	stdLog.Printf("Seed finished")
}
