package services

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"ptrwatch/internal/models"
)

// cachedReportService serves GetReport from an in-memory cache. Stored
// reports never change, so entries only expire by TTL; misses are not cached.
type cachedReportService struct {
	ReportServicer
	cache *cache.Cache
}

// NewCachedReportService wraps inner with a GetReport cache of the given TTL.
// A TTL of zero or less disables caching and returns inner.
func NewCachedReportService(inner ReportServicer, ttl time.Duration) ReportServicer {
	if ttl <= 0 {
		return inner
	}
	return &cachedReportService{
		ReportServicer: inner,
		cache:          cache.New(ttl, 2*ttl),
	}
}

func reportCacheKey(filingID int64) string {
	return "report:" + strconv.FormatInt(filingID, 10)
}

// GetReport returns the cached report when present.
func (s *cachedReportService) GetReport(filingID int64) (*models.Report, error) {
	key := reportCacheKey(filingID)
	if cached, found := s.cache.Get(key); found {
		return cached.(*models.Report), nil
	}

	report, err := s.ReportServicer.GetReport(filingID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, report, cache.DefaultExpiration)
	return report, nil
}
