package tracking

import "time"

// VisitorSession aggregates a single continuous visit by one browser
// instance. At most one row exists per session ID; page_views only grows
// while the session is live.
type VisitorSession struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	SessionID       string `gorm:"uniqueIndex;size:64;not null"`
	VisitorID       string `gorm:"index;size:64;not null"`
	PageViews       int    `gorm:"not null;default:0"`
	DurationSeconds int    `gorm:"not null;default:0"`
	Device          string `gorm:"index"`
	Browser         string `gorm:"index"`
	OS              string
	Country         string `gorm:"index"`
	City            string
	UserAgent       string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

// PageView records a single page load. Immutable once written; always
// references an existing VisitorSession row.
type PageView struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID string `gorm:"index;size:64;not null"`
	PageURL   string `gorm:"index;not null"`
	PageTitle string
	PagePath  string `gorm:"index"`
	Referrer  string
	CreatedAt time.Time `gorm:"index"`
}

// UserEvent records a single visitor interaction (click, scroll, form
// submission). Orphan events without a matching session are tolerated.
type UserEvent struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	SessionID         string `gorm:"index;size:64;not null"`
	EventType         string `gorm:"index;not null"`
	EventName         string `gorm:"index"`
	ElementSelector   string
	ElementText       string
	ElementAttributes string `gorm:"type:text"`
	PositionX         int
	PositionY         int
	EventData         string    `gorm:"type:text"`
	CreatedAt         time.Time `gorm:"index"`
}

// DailyRollup holds precomputed per-day visitor and page-view totals,
// maintained by the background rollup job and read by the overview metric.
type DailyRollup struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	Date           time.Time `gorm:"uniqueIndex;type:datetime;not null"`
	UniqueVisitors int       `gorm:"not null;default:0"`
	TotalPageViews int       `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName keeps the rollup table on the name the dashboard queries expect.
func (DailyRollup) TableName() string {
	return "daily_analytics"
}
