// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package services

import (
	"context"
	"runtime"
	"time"

	"github.com/tomtom215/shelfmark/internal/metrics"
)

// UptimeService periodically publishes process uptime and build info to
// the metrics registry.
type UptimeService struct {
	version  string
	interval time.Duration
	started  time.Time
}

// NewUptimeService creates an uptime reporter. Interval defaults to 15s.
func NewUptimeService(version string, interval time.Duration) *UptimeService {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &UptimeService{
		version:  version,
		interval: interval,
		started:  time.Now(),
	}
}

// Serve implements suture.Service.
func (u *UptimeService) Serve(ctx context.Context) error {
	metrics.AppInfo.WithLabelValues(u.version, runtime.Version()).Set(1)
	metrics.AppUptime.Set(time.Since(u.started).Seconds())

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.AppUptime.Set(time.Since(u.started).Seconds())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (u *UptimeService) String() string {
	return "uptime-reporter"
}
