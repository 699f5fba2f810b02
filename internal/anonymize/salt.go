package anonymize

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// SaltProvider 提供当前有效的哈希盐及其失效时刻。
type SaltProvider interface {
	Current() (salt string, validUntil time.Time)
}

// RotatingSaltProvider 按 UTC 日界轮换盐值。
// 旧盐在轮换时被直接覆盖，不做任何归档：跨日哈希不可关联
// 是整个系统的隐私底线，必须由构造保证而非约定保证。
type RotatingSaltProvider struct {
	mu         sync.Mutex
	salt       string
	validUntil time.Time
	now        func() time.Time
}

// NewRotatingSaltProvider 创建按日轮换的盐提供者。
func NewRotatingSaltProvider() *RotatingSaltProvider {
	return &RotatingSaltProvider{now: time.Now}
}

// WithNow 允许在测试中注入时钟。
func (p *RotatingSaltProvider) WithNow(now func() time.Time) *RotatingSaltProvider {
	if now != nil {
		p.now = now
	}
	return p
}

// Current 返回当日盐。日界已过时先完成轮换再返回，
// 同一次调用内只会观察到一个盐值。
func (p *RotatingSaltProvider) Current() (string, time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now().UTC()
	if p.salt == "" || !now.Before(p.validUntil) {
		p.salt = newSalt()
		p.validUntil = now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	}

	return p.salt, p.validUntil
}

func newSalt() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand 失败时不允许退化为弱盐
		panic(err)
	}
	return hex.EncodeToString(buf)
}
