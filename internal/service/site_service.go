package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pagesight/internal/db"
	"gorm.io/gorm"
)

// ErrUnknownSite 表示事件携带的站点标识未登记或已停用。
var ErrUnknownSite = errors.New("unknown or inactive site")

// SiteService 维护站点登记表。站点的完整生命周期管理
// （计费、面板等）属于外部系统，这里只提供接入所需的最小集。
type SiteService struct {
	db *gorm.DB
}

// NewSiteService 创建 SiteService。
func NewSiteService(gdb *gorm.DB) *SiteService {
	return &SiteService{db: gdb}
}

// Register 登记一个新站点并签发其公开标识。
func (s *SiteService) Register(domain string) (*db.Site, error) {
	trimmed := strings.TrimSpace(domain)
	if trimmed == "" {
		return nil, errors.New("domain is required")
	}

	site := db.Site{
		PublicID: uuid.NewString(),
		Domain:   trimmed,
		Active:   true,
	}
	if err := s.db.Create(&site).Error; err != nil {
		return nil, err
	}

	return &site, nil
}

// LookupActive 按公开标识查找处于启用状态的站点。
func (s *SiteService) LookupActive(publicID string) (*db.Site, error) {
	var site db.Site
	err := s.db.Where("public_id = ? AND active = ?", publicID, true).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownSite
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}
