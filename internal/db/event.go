package db

import "time"

// PageviewEvent 保存一条已匿名化的访问记录。
// 模型中刻意不存在任何原始 IP 字段：匿名化发生在写入之前，
// 这里只保留当日盐派生出的 VisitorHash。
type PageviewEvent struct {
	ID           uint   `gorm:"primaryKey"`
	RecordID     string `gorm:"size:36;uniqueIndex"`
	SiteID       uint   `gorm:"index"`
	Kind         string `gorm:"size:16;index"`
	URL          string `gorm:"size:2048"`
	Referrer     string `gorm:"size:2048"`
	ScreenWidth  int
	ScreenHeight int
	Language     string `gorm:"size:35"`
	VisitorHash  string `gorm:"size:64;index"`
	Name         string `gorm:"size:128"`
	Category     string `gorm:"size:128"`
	Value        string `gorm:"size:256"`
	ReceivedAt   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (PageviewEvent) TableName() string {
	return "pageview_events"
}
