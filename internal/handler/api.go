package handler

import (
	"time"

	"github.com/pagesight/internal/anonymize"
	"github.com/pagesight/internal/ratelimit"
	"github.com/pagesight/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	ingest      *service.IngestService
	sites       *service.SiteService
	trustedHops int
	baseURL     string
}

// Options 控制 API 的可调参数。
type Options struct {
	TrustedProxyHops int
	RateLimitPerMin  int
	PublicBaseURL    string
	Now              func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	if opts.TrustedProxyHops <= 0 {
		opts.TrustedProxyHops = 1
	}
	if opts.RateLimitPerMin <= 0 {
		opts.RateLimitPerMin = 60
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	salts := anonymize.NewRotatingSaltProvider().WithNow(opts.Now)
	anonymizer := anonymize.NewAnonymizer(salts)
	limiter := ratelimit.NewLimiter(opts.RateLimitPerMin)

	ingest := service.NewIngestService(gdb, anonymizer, limiter).WithNow(opts.Now)

	return &API{
		ingest:      ingest,
		sites:       ingest.Sites(),
		trustedHops: opts.TrustedProxyHops,
		baseURL:     opts.PublicBaseURL,
	}
}
