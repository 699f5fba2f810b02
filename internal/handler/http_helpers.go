package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// clientIPFromRequest 按可信代理跳数从 X-Forwarded-For 链中取客户端 IP。
// 取出的值仅用于当次匿名化计算，调用方不得记录它。
func clientIPFromRequest(c *gin.Context, trustedHops int) string {
	forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-For"))
	if forwarded == "" {
		return c.ClientIP()
	}

	parts := strings.Split(forwarded, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// 单层可信代理：链首项即原始客户端。这是文档化的信任假设，
	// 无论链有多长都取第一个值。
	if trustedHops <= 1 {
		return parts[0]
	}

	// 多跳部署下链首项可被伪造，从链尾按可信跳数回数：
	// 最外层可信代理追加的条目才是真实客户端。
	idx := len(parts) - trustedHops
	if idx < 0 {
		idx = 0
	}
	return parts[idx]
}
