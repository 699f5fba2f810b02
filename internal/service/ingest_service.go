package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pagesight/event"
	"github.com/pagesight/internal/anonymize"
	"github.com/pagesight/internal/db"
	"github.com/pagesight/internal/ratelimit"
	"gorm.io/gorm"
)

// ErrRateLimited 表示该访客哈希在当前窗口的配额已用尽。
// 调用方需要把它与普通失败区分开来。
var ErrRateLimited = errors.New("visitor rate limit exceeded")

// ItemStatus 描述批次内单条事件的处理结论。
type ItemStatus string

const (
	ItemAccepted    ItemStatus = "accepted"
	ItemInvalid     ItemStatus = "invalid"
	ItemUnknownSite ItemStatus = "unknown_site"
)

// ItemResult 是批次内单条事件的判定结果。
type ItemResult struct {
	Index  int        `json:"index"`
	Status ItemStatus `json:"status"`
	Errors []string   `json:"errors,omitempty"`
}

// Result 汇总一次批量接收的处理情况。
type Result struct {
	Accepted int          `json:"accepted"`
	Rejected int          `json:"rejected"`
	Items    []ItemResult `json:"results"`
}

// IngestService 串联校验、脱敏、匿名化、限流与落库。
// 原始 IP 只以参数形式经过 Ingest，换取访客哈希后即不再引用，
// 不会写入任何日志或持久化记录。
type IngestService struct {
	db         *gorm.DB
	sites      *SiteService
	rollups    *RollupService
	anonymizer *anonymize.Anonymizer
	limiter    *ratelimit.Limiter
	scrubber   *bluemonday.Policy
	now        func() time.Time
}

// NewIngestService 创建 IngestService。
func NewIngestService(gdb *gorm.DB, anonymizer *anonymize.Anonymizer, limiter *ratelimit.Limiter) *IngestService {
	return &IngestService{
		db:         gdb,
		sites:      NewSiteService(gdb),
		rollups:    NewRollupService(gdb),
		anonymizer: anonymizer,
		limiter:    limiter,
		scrubber:   bluemonday.StrictPolicy(),
		now:        time.Now,
	}
}

// WithNow 允许在测试中注入时钟。
func (s *IngestService) WithNow(now func() time.Time) *IngestService {
	if now != nil {
		s.now = now
	}
	return s
}

// Ingest 处理一批事件。单条校验失败只拒绝该条，其余照常入库；
// 存储失败则整体报错，不产生部分确认。
func (s *IngestService) Ingest(items []event.Payload, clientIP, userAgent string) (Result, error) {
	result := Result{Items: make([]ItemResult, 0, len(items))}

	now := s.now().UTC()
	visitorHash := s.anonymizer.Hash(clientIP, userAgent)

	if !s.limiter.Allow(visitorHash, now) {
		return result, ErrRateLimited
	}

	for i := range items {
		item := &items[i]

		if fieldErrs := event.Validate(item); len(fieldErrs) > 0 {
			reasons := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				reasons = append(reasons, fe.Error())
			}
			result.Rejected++
			result.Items = append(result.Items, ItemResult{Index: i, Status: ItemInvalid, Errors: reasons})
			continue
		}

		site, err := s.sites.LookupActive(item.SiteID)
		if errors.Is(err, ErrUnknownSite) {
			result.Rejected++
			result.Items = append(result.Items, ItemResult{Index: i, Status: ItemUnknownSite, Errors: []string{err.Error()}})
			continue
		}
		if err != nil {
			return result, err
		}

		record := db.PageviewEvent{
			RecordID:     uuid.NewString(),
			SiteID:       site.ID,
			Kind:         item.Kind,
			URL:          ScrubURL(item.URL),
			Referrer:     ScrubURL(item.Referrer),
			ScreenWidth:  item.ScreenWidth,
			ScreenHeight: item.ScreenHeight,
			Language:     item.Language,
			VisitorHash:  visitorHash,
			Name:         s.scrubber.Sanitize(item.Name),
			Category:     s.scrubber.Sanitize(item.Category),
			Value:        s.scrubber.Sanitize(item.Value),
			ReceivedAt:   now,
		}

		if err := s.db.Create(&record).Error; err != nil {
			return result, err
		}

		if event.Kind(item.Kind) == event.KindPageview {
			if err := s.rollups.RecordPageview(site.ID, visitorHash, now); err != nil {
				return result, err
			}
		}

		result.Accepted++
		result.Items = append(result.Items, ItemResult{Index: i, Status: ItemAccepted})
	}

	return result, nil
}

// Sites 暴露站点服务，便于路由层登记测试站点。
func (s *IngestService) Sites() *SiteService {
	return s.sites
}
