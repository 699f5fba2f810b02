package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pagesight/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由。
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// 采集端点是公开的只写接口，脚本被第三方站点嵌入，
	// 必须放行任意来源的跨域调用。
	collect := r.Group("/api")
	collect.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type"},
	}))
	{
		collect.POST("/event", api.CollectEvents)
	}

	r.GET("/js/snippet", api.ServeSnippet)

	return r
}
