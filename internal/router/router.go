package router

import (
	"fmt"
	"strings"

	"github.com/velora-next/internal/cache"
	"github.com/velora-next/internal/config"
	publichandlers "github.com/velora-next/internal/http/handlers/public"
	"github.com/velora-next/internal/logger"
	"github.com/velora-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vl"
	}
	redisClient := cache.Client()
	cartRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:cart", redisPrefix),
		WindowSeconds: cfg.Security.CartRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CartRateLimit.MaxRequests,
		Message:       "too many cart requests",
	}
	if !cfg.Security.CartRateLimit.Enabled {
		cartRule.MaxRequests = 0
	}
	cartLimiter := RateLimitMiddleware(redisClient, cartRule, KeyByCartOwner)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开浏览接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
			public.GET("/categories", publicHandler.ListCategories)
			public.GET("/banners", publicHandler.GetPublicBanners)
		}

		// 购物车接口（用户/游客共用，归属标识来自请求头）
		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", cartLimiter, publicHandler.AddCartItem)
			cart.PUT("/items/:item_id", cartLimiter, publicHandler.UpdateCartItem)
			cart.DELETE("/items/:item_id", cartLimiter, publicHandler.DeleteCartItem)
			cart.DELETE("", cartLimiter, publicHandler.ClearCart)
			cart.POST("/merge", cartLimiter, publicHandler.MergeCart)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
