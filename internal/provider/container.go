package provider

import (
	"time"

	"github.com/velora-next/internal/cache"
	"github.com/velora-next/internal/config"
	"github.com/velora-next/internal/logger"
	"github.com/velora-next/internal/models"
	"github.com/velora-next/internal/queue"
	"github.com/velora-next/internal/repository"
	"github.com/velora-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CartRepo      repository.CartRepository
	VariationRepo repository.VariationRepository
	ProductRepo   repository.ProductRepository
	CategoryRepo  repository.CategoryRepository
	BannerRepo    repository.BannerRepository

	// Services
	CartService            *service.CartService
	CartMaintenanceService *service.CartMaintenanceService
	ProductService         *service.ProductService
	CategoryService        *service.CategoryService
	BannerService          *service.BannerService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CartRepo = repository.NewCartRepository(db)
	c.VariationRepo = repository.NewVariationRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.BannerRepo = repository.NewBannerRepository(db)
}

func (c *Container) initServices() {
	c.CartService = service.NewCartService(c.CartRepo, c.VariationRepo)
	staleAfter := time.Duration(c.Config.Cart.StaleAfterHours) * time.Hour
	c.CartMaintenanceService = service.NewCartMaintenanceService(c.CartService, c.CartRepo, staleAfter)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariationRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.BannerService = service.NewBannerService(c.BannerRepo)
}
