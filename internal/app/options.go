package service

import (
	"time"

	"github.com/okian/dugout/internal/domain/breakdown"
	"github.com/okian/dugout/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued sessions.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many session IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithCacheSize sets the memo capacity in bytes. Zero disables memoization.
func WithCacheSize(bytes int) Option {
	return func(s *Service) {
		if bytes >= 0 {
			s.cacheSizeBytes = bytes
		}
	}
}

// WithCacheTTL expires memoized results after seconds.
func WithCacheTTL(seconds int) Option {
	return func(s *Service) {
		if seconds >= 0 {
			s.cacheTTLSeconds = seconds
		}
	}
}

// WithEngineOptions tunes the breakdown engine thresholds.
func WithEngineOptions(opts ...breakdown.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithDefaultWindow sets the workload window used when a request omits one.
func WithDefaultWindow(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.defaultWindow = days
		}
	}
}

// WithTrendWeeks sets the trend length used when a request omits one.
func WithTrendWeeks(weeks int) Option {
	return func(s *Service) {
		if weeks > 0 {
			s.trendWeeks = weeks
		}
	}
}

// WithClock sets the time source for date-relative views.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
