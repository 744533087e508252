package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, &mockPinger{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %s, want %s", report.Status, Healthy)
	}
	for name, check := range report.Checks {
		if check != CheckOK {
			t.Errorf("check %s = %s, want %s", name, check, CheckOK)
		}
	}
	if len(report.Checks) != 3 {
		t.Errorf("expected 3 checks, got %d", len(report.Checks))
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("refused")}, &mockPinger{}, nil)

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status = %s, want %s", report.Status, Degraded)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("database = %s, want %s", report.Checks["database"], CheckError)
	}
	if report.Checks["search"] != CheckOK {
		t.Errorf("search = %s, want %s", report.Checks["search"], CheckOK)
	}
}

func TestCheck_SearchDown(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{err: errors.New("refused")}, nil)

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status = %s, want %s", report.Status, Degraded)
	}
}

func TestCheck_NoCacheConfigured(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, nil)

	report := svc.Check(context.Background())
	if _, ok := report.Checks["cache"]; ok {
		t.Error("cache check should be absent when no cache is configured")
	}
	if report.Status != Healthy {
		t.Errorf("status = %s, want %s", report.Status, Healthy)
	}
}
