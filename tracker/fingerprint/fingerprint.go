// Package fingerprint 从公开浏览器信号派生短生命周期的访客令牌。
// 令牌只用于单个页面会话内的归组，不构成任何跨会话身份，
// 也绝不读取 cookie、本地存储或任何持久设备标识。
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pagesight/tracker/browser"
	"golang.org/x/crypto/blake2b"
)

// 信号缺失时的固定兜底值：宁可产出粗粒度令牌也不抛错。
const (
	fallbackLanguage = "xx"
	fallbackScreen   = "0x0x0"
	fallbackTimezone = "tz:0"
)

// Components 是参与派生的全部输入信号。
type Components struct {
	UserAgent      string
	Language       string
	ScreenWidth    int
	ScreenHeight   int
	ColorDepth     int
	TimezoneOffset int
	HasScreen      bool
}

// FromPage 从页面能力接口采集信号，缺失能力以固定值兜底。
func FromPage(p browser.Page) Components {
	c := Components{
		UserAgent:      p.UserAgent(),
		Language:       p.Language(),
		TimezoneOffset: p.TimezoneOffsetMinutes(),
	}
	if screen, ok := p.Screen(); ok {
		c.HasScreen = true
		c.ScreenWidth = screen.Width
		c.ScreenHeight = screen.Height
		c.ColorDepth = screen.ColorDepth
	}
	return c
}

// Generate 对相同输入永远产出相同令牌；任一信号变化令牌随之变化。
// 这是归组用途的确定性哈希，不承诺密码学级抗碰撞。
func Generate(c Components) string {
	language := strings.TrimSpace(c.Language)
	if language == "" {
		language = fallbackLanguage
	}

	screen := fallbackScreen
	if c.HasScreen {
		screen = fmt.Sprintf("%dx%dx%d", c.ScreenWidth, c.ScreenHeight, c.ColorDepth)
	}

	material := strings.Join([]string{
		c.UserAgent,
		language,
		screen,
		fmt.Sprintf("tz:%d", c.TimezoneOffset),
	}, "|")

	digest := blake2b.Sum256([]byte(material))
	return hex.EncodeToString(digest[:])[:16]
}
