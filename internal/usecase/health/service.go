package health

import (
	"context"
	"fmt"
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

// maxDiagnosticCollections caps the collection names listed by Diagnose.
const maxDiagnosticCollections = 10

// errorPreview is the number of error characters shown in diagnostics.
const errorPreview = 50

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Environment says which database settings were supplied.
type Environment struct {
	Configured bool // a real database backend was initialised
	URLSet     bool
	NameSet    bool
}

// Diagnostic is the human-oriented connectivity summary served on /test.
type Diagnostic struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// Service coordinates health checks.
type Service struct {
	db   Database
	lock Pinger
	env  Environment
}

// New creates a Service.
func New(db Database, env Environment) *Service {
	return &Service{db: db, env: env}
}

// WithLock adds the seed lock server to health checks.
func (s *Service) WithLock(p Pinger) *Service {
	s.lock = p
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"database": probe(ctx, s.db)}
	if s.lock != nil {
		checks["lock"] = probe(ctx, s.lock)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

// Diagnose reports database reachability and which settings are present.
// It never fails; problems are described in the result.
func (s *Service) Diagnose(ctx context.Context) Diagnostic {
	d := Diagnostic{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if s.env.Configured {
		d.Database = "✅ Available"
		d.ConnectionStatus = "Connected"

		names, err := s.db.ListCollections(ctx)
		if err != nil {
			d.Database = fmt.Sprintf("⚠️  Connected but Error: %s", truncate(err.Error(), errorPreview))
		} else {
			if len(names) > maxDiagnosticCollections {
				names = names[:maxDiagnosticCollections]
			}
			d.Collections = names
			d.Database = "✅ Connected & Working"
		}
	} else {
		d.Database = "⚠️  Available but not initialized"
	}

	d.DatabaseURL = setOrNot(s.env.URLSet)
	d.DatabaseName = setOrNot(s.env.NameSet)
	return d
}

func probe(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}

func setOrNot(ok bool) string {
	if ok {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
