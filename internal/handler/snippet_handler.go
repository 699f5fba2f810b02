package handler

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pagesight/internal/service"
)

// ServeSnippet 输出站点嵌入用的 script 标签。
// CMS 适配器在服务端调用它；Do-Not-Track 与登录态排除
// 属于先于脚本下发的策略闸门，此处直接不产出任何内容。
func (a *API) ServeSnippet(c *gin.Context) {
	if c.GetHeader("DNT") == "1" || c.Query("logged_in") == "1" {
		c.Status(http.StatusNoContent)
		return
	}

	siteID := strings.TrimSpace(c.Query("site_id"))
	if siteID == "" {
		respondError(c, http.StatusBadRequest, "site_id is required")
		return
	}

	if _, err := a.sites.LookupActive(siteID); err != nil {
		if errors.Is(err, service.ErrUnknownSite) {
			respondError(c, http.StatusNotFound, "unknown site")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to look up site")
		return
	}

	snippet := fmt.Sprintf(
		`<script defer src="%s/js/tracker.js" data-site-id="%s"></script>`,
		strings.TrimRight(a.baseURL, "/"),
		html.EscapeString(siteID),
	)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(snippet))
}
