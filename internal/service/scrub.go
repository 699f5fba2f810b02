package service

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/pagesight/event"
)

// sensitiveParams 列出绝不允许落库的查询参数。
var sensitiveParams = []string{"token", "api_key", "password", "secret"}

// ScrubURL 去除已知敏感查询参数并截断超长 URL。
// 无法解析的输入按普通字符串截断处理，不报错。
func ScrubURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed.RawQuery != "" {
		query := parsed.Query()
		for _, key := range sensitiveParams {
			query.Del(key)
		}
		parsed.RawQuery = query.Encode()
		trimmed = parsed.String()
	}

	if len(trimmed) > event.MaxURLLen {
		// 截断点必须落在字符边界上，避免落库半个多字节字符
		cut := event.MaxURLLen
		for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
			cut--
		}
		trimmed = trimmed[:cut]
	}

	return trimmed
}
