package db

import "time"

// Site 代表一个已登记的站点，PublicID 是嵌入脚本携带的站点标识。
type Site struct {
	ID        uint   `gorm:"primaryKey"`
	PublicID  string `gorm:"size:36;uniqueIndex"`
	Domain    string `gorm:"size:255;index"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (Site) TableName() string {
	return "sites"
}
