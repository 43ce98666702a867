// Package health runs liveness and readiness checks and serves them over HTTP.
package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// Check represents a single health check that can succeed or fail.
type Check interface {
	Name() string
	// Check returns nil when healthy.
	Check(ctx context.Context) error
}

// CheckFunc adapts a plain function to Check.
type CheckFunc struct {
	name string
	fn   func(context.Context) error
}

// NewCheckFunc creates a new CheckFunc with the given name and function.
func NewCheckFunc(name string, fn func(context.Context) error) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

// Name returns the name of this check.
func (c *CheckFunc) Name() string { return c.name }

// Check executes the check function.
func (c *CheckFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// CheckResult is the outcome of one check execution.
type CheckResult struct {
	Name    string
	Healthy bool
	Error   string
	Latency time.Duration
}

// HealthStatus aggregates the results of a probe.
type HealthStatus struct {
	Healthy bool
	Checks  []CheckResult
}

// HealthChecker manages and executes health checks for liveness and readiness probes.
// A failing check only reports unhealthy after failureThreshold consecutive failures.
type HealthChecker struct {
	mu               sync.Mutex
	livenessChecks   []Check
	readinessChecks  []Check
	timeout          time.Duration
	failureCount     map[string]int
	failureThreshold int
	logger           logger.Logger
}

// Option is a functional option for configuring HealthChecker.
type Option func(*HealthChecker)

// WithTimeout sets the per-check timeout. Default is 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(h *HealthChecker) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithLogger sets the logger for health check operations.
func WithLogger(l logger.Logger) Option {
	return func(h *HealthChecker) { h.logger = l }
}

// WithFailureThreshold sets how many consecutive failures mark a check unhealthy.
// Default is 3.
func WithFailureThreshold(threshold int) Option {
	return func(h *HealthChecker) {
		if threshold > 0 {
			h.failureThreshold = threshold
		}
	}
}

// New creates a new HealthChecker with the given options.
func New(opts ...Option) *HealthChecker {
	h := &HealthChecker{
		timeout:          5 * time.Second,
		failureThreshold: 3,
		failureCount:     make(map[string]int),
		logger:           logger.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddLivenessCheck registers a check that decides whether the process should be restarted.
func (h *HealthChecker) AddLivenessCheck(check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.livenessChecks = append(h.livenessChecks, check)
}

// AddReadinessCheck registers a check that decides whether traffic should be routed here.
func (h *HealthChecker) AddReadinessCheck(check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readinessChecks = append(h.readinessChecks, check)
}

// CheckLiveness executes all liveness checks.
func (h *HealthChecker) CheckLiveness(ctx context.Context) (*HealthStatus, error) {
	h.mu.Lock()
	checks := append([]Check(nil), h.livenessChecks...)
	h.mu.Unlock()
	return h.run(ctx, checks)
}

// CheckReadiness executes all readiness checks.
func (h *HealthChecker) CheckReadiness(ctx context.Context) (*HealthStatus, error) {
	h.mu.Lock()
	checks := append([]Check(nil), h.readinessChecks...)
	h.mu.Unlock()
	return h.run(ctx, checks)
}

// run executes checks concurrently. No checks means healthy.
func (h *HealthChecker) run(ctx context.Context, checks []Check) (*HealthStatus, error) {
	status := &HealthStatus{Healthy: true, Checks: make([]CheckResult, len(checks))}

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status.Checks[i] = h.runOne(ctx, check)
		}()
	}
	wg.Wait()

	var failed []string
	for _, r := range status.Checks {
		if !r.Healthy {
			failed = append(failed, r.Name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		status.Healthy = false
		return status, fmt.Errorf("health checks failed: %v", failed)
	}
	return status, nil
}

func (h *HealthChecker) runOne(parent context.Context, check Check) CheckResult {
	ctx, cancel := context.WithTimeout(parent, h.timeout)
	defer cancel()

	start := time.Now()
	err := check.Check(ctx)
	result := CheckResult{Name: check.Name(), Latency: time.Since(start), Healthy: true}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err == nil {
		h.failureCount[result.Name] = 0
		h.logger.Debug("Health check passed",
			logger.StringField("check", result.Name),
			logger.DurationField("latency", result.Latency))
		return result
	}

	h.failureCount[result.Name]++
	failures := h.failureCount[result.Name]
	fields := []logger.LogField{
		logger.StringField("check", result.Name),
		logger.ErrorField(err),
		logger.IntField("failures", failures),
		logger.IntField("threshold", h.failureThreshold),
	}
	if failures < h.failureThreshold {
		h.logger.Debug("Health check failed but below threshold", fields...)
		return result
	}

	result.Healthy = false
	result.Error = err.Error()
	h.logger.Warn("Health check failed", fields...)
	return result
}
