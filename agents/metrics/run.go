/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run collects the summary of a single agent run. A run is a short-lived batch
// job, so the summary is pushed to a Pushgateway rather than scraped.
type Run struct {
	mode     string
	registry *prometheus.Registry
	attempts *prometheus.CounterVec
	files    prometheus.Gauge
	offPlan  prometheus.Gauge
	duration prometheus.Gauge
	success  prometheus.Gauge
	lastRun  prometheus.Gauge
}

// NewRun creates a summary for a run in the given mode.
func NewRun(mode string) *Run {
	r := &Run{
		mode:     mode,
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pairloop_generation_attempts_total",
			Help: "Remote generation attempts made during the run.",
		}, []string{"model", "outcome"}),
		files: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pairloop_files_written",
			Help: "Files written to disk by the coder.",
		}),
		offPlan: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pairloop_untargeted_files_written",
			Help: "Files written outside the task's TARGET FILES list.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pairloop_run_duration_seconds",
			Help: "Wall time of the run.",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pairloop_run_success",
			Help: "1 if the run completed without error, 0 otherwise.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pairloop_run_last_completion_timestamp_seconds",
			Help: "Unix time the run finished.",
		}),
	}
	r.registry.MustRegister(r.attempts, r.files, r.offPlan, r.duration, r.success, r.lastRun)
	return r
}

// ObserveAttempt counts one generation attempt.
func (r *Run) ObserveAttempt(_ context.Context, model string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.attempts.WithLabelValues(model, outcome).Inc()
}

// SetFilesWritten records how many files the coder persisted.
func (r *Run) SetFilesWritten(n int) {
	r.files.Set(float64(n))
}

// SetUntargetedFiles records how many written files the task did not list
// as targets.
func (r *Run) SetUntargetedFiles(n int) {
	r.offPlan.Set(float64(n))
}

// Finish records the outcome of the run.
func (r *Run) Finish(elapsed time.Duration, err error) {
	r.duration.Set(elapsed.Seconds())
	if err == nil {
		r.success.Set(1)
	} else {
		r.success.Set(0)
	}
	r.lastRun.SetToCurrentTime()
}

// Gatherer exposes the collected metrics.
func (r *Run) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Push sends the summary to the Pushgateway at url under job, grouped by mode.
func (r *Run) Push(url, job string) error {
	if err := push.New(url, job).
		Gatherer(r.registry).
		Grouping("mode", r.mode).
		Push(); err != nil {
		return fmt.Errorf("pushing run metrics: %w", err)
	}
	return nil
}
