package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/pagesight/internal/config"
	"github.com/pagesight/internal/db"
	"github.com/pagesight/internal/handler"
	"github.com/pagesight/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	api := handler.NewAPI(db.DB, handler.Options{
		TrustedProxyHops: cfg.TrustedProxyHops,
		RateLimitPerMin:  cfg.RateLimitPerMin,
		PublicBaseURL:    cfg.PublicBaseURL,
	})

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
