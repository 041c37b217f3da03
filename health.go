package weft

import (
	"context"
	"sync"
	"time"
)

type HealthStatus string

const (
	HealthStatusUp      HealthStatus = "up"
	HealthStatusDown    HealthStatus = "down"
	HealthStatusUnknown HealthStatus = "unknown"
)

// HealthReport is the outcome of one component's check.
type HealthReport struct {
	Name    string
	Status  HealthStatus
	Error   error
	Latency time.Duration
}

// HealthChecker components take part in liveness probing.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ReadinessChecker components take part in readiness probing.
type ReadinessChecker interface {
	ReadinessCheck(ctx context.Context) error
}

// Live runs the health checks of every instantiated component and
// returns the first failure.
func (c *Container) Live(ctx context.Context) error {
	for _, r := range c.runChecks(ctx, healthCheckOf) {
		if r.Status == HealthStatusDown {
			return errHealthCheckFailed(r.Name, r.Error)
		}
	}
	return nil
}

// Ready runs the readiness checks of every instantiated component and
// returns the first failure.
func (c *Container) Ready(ctx context.Context) error {
	for _, r := range c.runChecks(ctx, readinessCheckOf) {
		if r.Status == HealthStatusDown {
			return errHealthCheckFailed(r.Name, r.Error)
		}
	}
	return nil
}

// Health runs the health checks and returns every report.
func (c *Container) Health(ctx context.Context) []HealthReport {
	return c.runChecks(ctx, healthCheckOf)
}

func healthCheckOf(instance any) func(context.Context) error {
	if checker, ok := instance.(HealthChecker); ok {
		return checker.HealthCheck
	}
	return nil
}

func readinessCheckOf(instance any) func(context.Context) error {
	if checker, ok := instance.(ReadinessChecker); ok {
		return checker.ReadinessCheck
	}
	return nil
}

// runChecks fans the checks out in parallel. Components that were
// never instantiated are skipped rather than built: probing must not
// trigger construction.
func (c *Container) runChecks(ctx context.Context, checkOf func(any) func(context.Context) error) []HealthReport {
	var (
		reports []HealthReport
		mu      sync.Mutex
		wg      sync.WaitGroup
	)

	for _, d := range c.descriptors() {
		instance, ok := c.cachedInstance(d)
		if !ok {
			continue
		}
		check := checkOf(instance)
		if check == nil {
			continue
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			start := time.Now()
			err := check(ctx)

			report := HealthReport{
				Name:    name,
				Status:  HealthStatusUp,
				Latency: time.Since(start),
			}
			if err != nil {
				report.Status = HealthStatusDown
				report.Error = err
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		}(d.name)
	}

	wg.Wait()
	return reports
}
