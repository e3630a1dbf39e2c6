package monitoring

import (
	"context"
	"time"

	"graylogsync/internal/core/ports"
)

type HealthChecker struct {
	checks []HealthCheck
}

type HealthCheck struct {
	Name    string
	Check   func(ctx context.Context) error
	Timeout time.Duration
}

type HealthStatus struct {
	Status    string
	Timestamp time.Time
	// Checks holds check names in registration order.
	Checks []CheckResult
}

type CheckResult struct {
	Name   string
	Status string
}

func (s HealthStatus) Healthy() bool {
	return s.Status == "healthy"
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{}
}

func (h *HealthChecker) AddCheck(name string, check func(ctx context.Context) error, timeout time.Duration) {
	h.checks = append(h.checks, HealthCheck{
		Name:    name,
		Check:   check,
		Timeout: timeout,
	})
}

// AddDirectoryCheck verifies that the directory accepts our bind and search.
func (h *HealthChecker) AddDirectoryCheck(directory ports.DirectoryClient, timeout time.Duration) {
	h.AddCheck("directory", func(ctx context.Context) error {
		_, err := directory.FetchGroups(ctx)
		return err
	}, timeout)
}

// AddPlatformCheck verifies that the API token can list users.
func (h *HealthChecker) AddPlatformCheck(platform ports.PlatformClient, timeout time.Duration) {
	h.AddCheck("platform", func(ctx context.Context) error {
		_, err := platform.ListUsers(ctx)
		return err
	}, timeout)
}

// CheckAll runs every check sequentially and reports each outcome.
func (h *HealthChecker) CheckAll(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
	}

	for _, check := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, check.Timeout)
		err := check.Check(checkCtx)
		cancel()

		if err != nil {
			status.Status = "unhealthy"
			status.Checks = append(status.Checks, CheckResult{Name: check.Name, Status: err.Error()})
		} else {
			status.Checks = append(status.Checks, CheckResult{Name: check.Name, Status: "healthy"})
		}
	}

	return status
}
