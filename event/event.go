package event

// Kind 区分事件类别。
type Kind string

const (
	// KindPageview 表示一次逻辑页面浏览。
	KindPageview Kind = "pageview"
	// KindCustom 表示站点自定义事件。
	KindCustom Kind = "custom"
)

// 字段长度上限，采集端与接收端共用。
const (
	MaxURLLen      = 2000
	MaxLanguageLen = 35
	MaxNameLen     = 128
	MaxCategoryLen = 128
	MaxValueLen    = 256
)

// Payload 是采集端与接收端共享的事件线格式。
// 入队后不可变，队列阶段只改变它的位置。
type Payload struct {
	Kind         string `json:"type"`
	SiteID       string `json:"site_id"`
	URL          string `json:"url"`
	Referrer     string `json:"referrer,omitempty"`
	ScreenWidth  int    `json:"screen_width,omitempty"`
	ScreenHeight int    `json:"screen_height,omitempty"`
	Language     string `json:"language,omitempty"`
	VisitorToken string `json:"visitor_token,omitempty"`
	QueuedAt     int64  `json:"queued_at,omitempty"`
	Name         string `json:"name,omitempty"`
	Category     string `json:"category,omitempty"`
	Value        string `json:"value,omitempty"`
}
