package service

import (
	"errors"
	"time"

	"github.com/pagesight/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RollupService 负责把匿名事件汇入站点小时级 PV/UV 快照。
// 它只消费访客哈希，跨日去重因盐轮换在此层天然不可能。
type RollupService struct {
	db *gorm.DB
}

// NewRollupService 创建 RollupService。
func NewRollupService(gdb *gorm.DB) *RollupService {
	return &RollupService{db: gdb}
}

// RecordPageview 记录一次页面浏览并维护对应小时的快照。
func (s *RollupService) RecordPageview(siteID uint, visitorHash string, now time.Time) error {
	if visitorHash == "" || siteID == 0 {
		return errors.New("invalid visitor hash or site id")
	}

	hour := now.UTC().Truncate(time.Hour)

	return s.db.Transaction(func(tx *gorm.DB) error {
		visitor := db.SiteHourlyVisitor{
			SiteID:      siteID,
			Hour:        hour,
			VisitorHash: visitorHash,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "site_id"}, {Name: "hour"}, {Name: "visitor_hash"}},
			DoNothing: true,
		}).Create(&visitor)
		if insert.Error != nil {
			return insert.Error
		}
		isNewVisitor := insert.RowsAffected == 1

		var snapshot db.SiteHourlySnapshot
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("site_id = ? AND hour = ?", siteID, hour).
			First(&snapshot)

		switch {
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			snapshot = db.SiteHourlySnapshot{SiteID: siteID, Hour: hour}
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}
		case result.Error != nil:
			return result.Error
		}

		snapshot.PageViews++
		if isNewVisitor {
			snapshot.UniqueVisitors++
		}

		return tx.Save(&snapshot).Error
	})
}

// HourlySnapshots 返回站点最近若干小时的快照，按小时升序。
func (s *RollupService) HourlySnapshots(siteID uint, now time.Time, hours int) ([]db.SiteHourlySnapshot, error) {
	if hours <= 0 {
		hours = 24
	}

	since := now.UTC().Truncate(time.Hour).Add(-time.Duration(hours-1) * time.Hour)

	var snapshots []db.SiteHourlySnapshot
	if err := s.db.
		Where("site_id = ? AND hour >= ?", siteID, since).
		Order("hour ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}
