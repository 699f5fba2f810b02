package anonymize

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Anonymizer 将原始 IP 与 User-Agent 归并为单向访客哈希。
// 原始 IP 只在 Hash 的调用栈内存在，本包没有任何接口
// 能够返回、记录或重建它。
type Anonymizer struct {
	salts SaltProvider
}

// NewAnonymizer 基于给定的盐提供者创建 Anonymizer。
func NewAnonymizer(salts SaltProvider) *Anonymizer {
	return &Anonymizer{salts: salts}
}

// Hash 计算 blake2b(ip + userAgent + 当日盐) 的十六进制摘要。
// 同日同输入结果稳定，跨日因盐轮换而不可关联。
func (a *Anonymizer) Hash(ip, userAgent string) string {
	salt, _ := a.salts.Current()

	digest := blake2b.Sum256([]byte(ip + userAgent + salt))
	return hex.EncodeToString(digest[:])[:32]
}

// CurrentSalt 返回当前盐的不透明标识，仅用于运维观测轮换是否发生。
// 为避免盐值外泄，返回的是盐自身的摘要而不是盐。
func (a *Anonymizer) CurrentSalt() string {
	salt, _ := a.salts.Current()
	digest := blake2b.Sum256([]byte(salt))
	return hex.EncodeToString(digest[:8])
}
