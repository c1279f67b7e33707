package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultTimeout bounds each component check.
const DefaultTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type namedCheck struct {
	name string
	fn   CheckFunc
}

// Service coordinates health checks.
type Service struct {
	checks  []namedCheck
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCheck adds a named component check.
func WithCheck(name string, fn CheckFunc) Option {
	return func(s *Service) {
		s.checks = append(s.checks, namedCheck{name: name, fn: fn})
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Service. embedding can be nil, in which case no "embedding" check is reported.
func New(embedding EmbeddingChecker, opts ...Option) *Service {
	s := &Service{timeout: DefaultTimeout}
	if embedding != nil {
		s.checks = append(s.checks, namedCheck{name: "embedding", fn: embedding.HealthCheck})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs every component check sequentially, each under its own timeout.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.checks))
	status := Healthy

	for _, c := range s.checks {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := c.fn(cctx)
		cancel()

		if err != nil {
			checks[c.name] = CheckError
			status = Degraded
			continue
		}
		checks[c.name] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
