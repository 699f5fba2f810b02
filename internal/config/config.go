package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig 汇总运行采集服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	DatabasePath     string
	GinMode          string
	PublicBaseURL    string
	TrustedProxyHops int
	RateLimitPerMin  int
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "pagesight.db"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	publicBaseURL := strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL"))
	if publicBaseURL == "" {
		publicBaseURL = "https://collect.pagesight.dev"
	}

	// 多级代理部署需要显式声明可信跳数，默认假设单层可信代理。
	trustedHops := parsePositiveInt(os.Getenv("TRUSTED_PROXY_HOPS"), 1)
	rateLimit := parsePositiveInt(os.Getenv("RATE_LIMIT_PER_MINUTE"), 60)

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		DatabasePath:     databasePath,
		GinMode:          ginMode,
		PublicBaseURL:    publicBaseURL,
		TrustedProxyHops: trustedHops,
		RateLimitPerMin:  rateLimit,
	}
}

func parsePositiveInt(raw string, fallback int) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
