package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates that an optional component failed.
	Degraded Status = "degraded"
	// Unhealthy indicates that a component every request needs failed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Component is a named dependency. The index backend is critical; a cache
// is not, since items fall through to the database.
type Component struct {
	Name     string
	Pinger   Pinger
	Critical bool
}

// Service coordinates health checks.
type Service struct {
	components []Component
}

// New creates a Service.
func New(components ...Component) *Service {
	return &Service{components: components}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.components))
	status := Healthy

	for _, c := range s.components {
		if err := c.Pinger.Ping(ctx); err != nil {
			logger.FromContext(ctx).Warn("health check failed",
				zap.String("component", c.Name),
				zap.Error(err),
			)
			checks[c.Name] = CheckError
			if c.Critical {
				status = Unhealthy
			} else if status == Healthy {
				status = Degraded
			}
			continue
		}
		checks[c.Name] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
