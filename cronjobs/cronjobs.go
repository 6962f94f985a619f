// Package cronjobs runs periodic probes against the upstream services.
package cronjobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"geosleuth/geocode"
	"geosleuth/metrics"
)

// ProbeName is geocoded on every run. It must always resolve.
const ProbeName = "London"

const probeTimeout = 15 * time.Second

// Status is the outcome of the latest probe. A zero CheckedAt means no probe has run yet.
type Status struct {
	Provider  string    `json:"provider"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Prober geocodes ProbeName through an uncached geocoder and remembers the result.
type Prober struct {
	provider string
	geocoder geocode.Geocoder

	mu     sync.RWMutex
	status Status
}

func NewProber(provider string, g geocode.Geocoder) *Prober {
	return &Prober{provider: provider, geocoder: g, status: Status{Provider: provider}}
}

// Probe runs one check and returns its status.
func (p *Prober) Probe(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	places, err := p.geocoder.Geocode(ctx, ProbeName, 1)
	if err == nil && len(places) == 0 {
		err = fmt.Errorf("no results for %q", ProbeName)
	}
	metrics.ObserveUpstream("probe", err)

	st := Status{Provider: p.provider, OK: err == nil, CheckedAt: time.Now().UTC()}
	if err != nil {
		st.Error = err.Error()
	}

	p.mu.Lock()
	p.status = st
	p.mu.Unlock()
	return st
}

func (p *Prober) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Healthy is true when the last probe passed or none has run.
func (s Status) Healthy() bool {
	return s.OK || s.CheckedAt.IsZero()
}

// InitCronJobs schedules the probe and starts the scheduler. The caller stops it.
func InitCronJobs(ctx context.Context, schedule string, p *Prober, logger *slog.Logger) (*cron.Cron, error) {
	logger.Info("starting cron jobs", "schedule", schedule)
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		st := p.Probe(ctx)
		if st.OK {
			logger.Info("cronjob: upstream probe ok", "provider", st.Provider)
			return
		}
		logger.Warn("cronjob: upstream probe failed", "provider", st.Provider, "error", st.Error)
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling upstream probe: %w", err)
	}

	c.Start()
	return c, nil
}
