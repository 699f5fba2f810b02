package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pagesight/event"
	"github.com/pagesight/internal/service"
)

const maxBodyBytes = 1 << 20

// CollectEvents 接收单条事件对象或事件数组。
// 单条校验失败不拖累整批；存储失败整体返回服务端错误。
func (a *API) CollectEvents(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		respondError(c, http.StatusBadRequest, "unable to read request body")
		return
	}

	items, ok := decodeBatch(body)
	if !ok {
		respondError(c, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if len(items) == 0 {
		respondError(c, http.StatusBadRequest, "empty batch")
		return
	}

	clientIP := clientIPFromRequest(c, a.trustedHops)
	userAgent := c.GetHeader("User-Agent")

	result, err := a.ingest.Ingest(items, clientIP, userAgent)
	switch {
	case errors.Is(err, service.ErrRateLimited):
		// 限流必须与系统故障可区分，客户端收到后不应重试。
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "failed to store events")
		return
	}

	c.JSON(http.StatusOK, result)
}

// decodeBatch 将请求体解析为事件数组，也兼容单个事件对象。
func decodeBatch(body []byte) ([]event.Payload, bool) {
	var items []event.Payload
	if err := json.Unmarshal(body, &items); err == nil {
		return items, true
	}

	var single event.Payload
	if err := json.Unmarshal(body, &single); err == nil {
		return []event.Payload{single}, true
	}

	return nil, false
}
