package health

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// --- Mocks ---

type mockDatabase struct {
	pingErr     error
	collections []string
	listErr     error
}

func (m *mockDatabase) Ping(_ context.Context) error { return m.pingErr }

func (m *mockDatabase) ListCollections(_ context.Context) ([]string, error) {
	return m.collections, m.listErr
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Check ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDatabase{}, Environment{}).WithLock(&mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["lock"] != CheckOK {
		t.Errorf("expected lock %q, got %q", CheckOK, r.Checks["lock"])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDatabase{pingErr: errors.New("conn refused")}, Environment{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}

func TestCheck_LockError(t *testing.T) {
	svc := New(&mockDatabase{}, Environment{}).WithLock(&mockPinger{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["lock"] != CheckError {
		t.Errorf("expected lock %q, got %q", CheckError, r.Checks["lock"])
	}
}

func TestCheck_NoLock(t *testing.T) {
	svc := New(&mockDatabase{}, Environment{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["lock"]; ok {
		t.Error("lock check should be absent when no lock is configured")
	}
}

// --- Diagnose ---

func TestDiagnose_Working(t *testing.T) {
	names := make([]string, 12)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	svc := New(&mockDatabase{collections: names}, Environment{Configured: true, URLSet: true, NameSet: true})
	d := svc.Diagnose(context.Background())

	if d.Backend != "✅ Running" {
		t.Errorf("backend = %q", d.Backend)
	}
	if d.Database != "✅ Connected & Working" {
		t.Errorf("database = %q", d.Database)
	}
	if d.ConnectionStatus != "Connected" {
		t.Errorf("connection_status = %q", d.ConnectionStatus)
	}
	if len(d.Collections) != 10 {
		t.Errorf("expected 10 collections, got %d", len(d.Collections))
	}
	if d.DatabaseURL != "✅ Set" || d.DatabaseName != "✅ Set" {
		t.Errorf("expected both settings set, got %q / %q", d.DatabaseURL, d.DatabaseName)
	}
}

func TestDiagnose_ListError(t *testing.T) {
	long := strings.Repeat("x", 80)
	svc := New(&mockDatabase{listErr: errors.New(long)}, Environment{Configured: true, URLSet: true})
	d := svc.Diagnose(context.Background())

	want := "⚠️  Connected but Error: " + strings.Repeat("x", 50)
	if d.Database != want {
		t.Errorf("database = %q, want %q", d.Database, want)
	}
	if len(d.Collections) != 0 {
		t.Errorf("expected no collections, got %v", d.Collections)
	}
	if d.DatabaseName != "❌ Not Set" {
		t.Errorf("database_name = %q", d.DatabaseName)
	}
}

func TestDiagnose_NotConfigured(t *testing.T) {
	svc := New(&mockDatabase{}, Environment{})
	d := svc.Diagnose(context.Background())

	if d.Database != "⚠️  Available but not initialized" {
		t.Errorf("database = %q", d.Database)
	}
	if d.ConnectionStatus != "Not Connected" {
		t.Errorf("connection_status = %q", d.ConnectionStatus)
	}
	if d.DatabaseURL != "❌ Not Set" {
		t.Errorf("database_url = %q", d.DatabaseURL)
	}
	if d.Collections == nil {
		t.Error("collections should render as an empty list")
	}
}
