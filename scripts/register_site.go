package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pagesight/internal/config"
	"github.com/pagesight/internal/db"
	"github.com/pagesight/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: register_site <domain>")
	}
	domain := os.Args[1]

	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 域名已登记时直接输出现有站点标识
	var existing db.Site
	if err := db.DB.Where("domain = ?", domain).First(&existing).Error; err == nil {
		fmt.Println("站点已存在，无需登记")
		fmt.Println("站点标识:", existing.PublicID)
		return
	}

	site, err := service.NewSiteService(db.DB).Register(domain)
	if err != nil {
		log.Fatal("站点登记失败:", err)
	}

	fmt.Println("站点登记成功")
	fmt.Println("域名:", site.Domain)
	fmt.Println("站点标识:", site.PublicID)
}
