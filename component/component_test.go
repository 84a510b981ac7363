package component

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kbukum/transcribe/logger"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	if r == nil {
		t.Fatal("expected non-nil registry")
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	c := &mockComponent{name: "client", health: Health{Name: "client", Status: StatusHealthy}}

	if err := r.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	c := &mockComponent{name: "client"}
	r.Register(c)

	err := r.Register(&mockComponent{name: "client"})
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	c := &mockComponent{name: "client"}
	r.Register(c)

	got := r.Get("client")
	if got == nil {
		t.Fatal("expected to get registered component")
	}
	if got.Name() != "client" {
		t.Errorf("expected 'client', got %q", got.Name())
	}
}

func TestGetNotFound(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	got := r.Get("missing")
	if got != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	order := []string{}

	r.Register(&mockComponent{
		name: "client", startOrder: &order,
		health: Health{Name: "client", Status: StatusHealthy},
	})
	r.Register(&mockComponent{
		name: "cache", startOrder: &order,
		health: Health{Name: "cache", Status: StatusHealthy},
	})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}

	if len(order) != 2 {
		t.Fatalf("expected 2 starts, got %d", len(order))
	}
	if order[0] != "client" || order[1] != "cache" {
		t.Errorf("expected start order [client, cache], got %v", order)
	}
}

func TestStartAllError(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	r.Register(&mockComponent{name: "client", startErr: fmt.Errorf("connection refused")})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Error("expected error from StartAll")
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	order := []string{}

	r.Register(&mockComponent{name: "client", stopOrder: &order, health: Health{Name: "client", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "cache", stopOrder: &order, health: Health{Name: "cache", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "storage", stopOrder: &order, health: Health{Name: "storage", Status: StatusHealthy}})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if len(order) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(order))
	}
	if order[0] != "storage" || order[1] != "cache" || order[2] != "client" {
		t.Errorf("expected reverse stop order [storage, cache, client], got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	order := []string{}
	r.Register(&mockComponent{name: "client", stopOrder: &order})

	// Don't start, then stop
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	r.Register(&mockComponent{
		name: "client", stopErr: fmt.Errorf("stop failed"),
		health: Health{Name: "client", Status: StatusHealthy},
	})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Error("expected error from StopAll")
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	r.Register(&mockComponent{
		name:   "client",
		health: Health{Name: "client", Status: StatusHealthy, Message: "connected"},
	})
	r.Register(&mockComponent{
		name:   "cache",
		health: Health{Name: "cache", Status: StatusUnhealthy, Message: "timeout"},
	})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected client healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusUnhealthy {
		t.Errorf("expected cache unhealthy, got %s", results[1].Status)
	}
}

func TestHealthStatusConstants(t *testing.T) {
	if StatusHealthy != "healthy" {
		t.Errorf("expected 'healthy', got %q", StatusHealthy)
	}
	if StatusUnhealthy != "unhealthy" {
		t.Errorf("expected 'unhealthy', got %q", StatusUnhealthy)
	}
	if StatusDegraded != "degraded" {
		t.Errorf("expected 'degraded', got %q", StatusDegraded)
	}
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "client", Details: "us-east-1"}
}

func TestStartAllDescribable(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	order := []string{}
	d := &describedComponent{mockComponent{name: "transcribe", startOrder: &order}}
	if err := r.Register(d); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	// a second StartAll must not restart
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if len(order) != 1 {
		t.Errorf("expected 1 start, got %d", len(order))
	}
}

func TestStopTimeoutApplied(t *testing.T) {
	var deadline time.Time
	c := &deadlineComponent{mockComponent: mockComponent{name: "slow"}, seen: &deadline}
	r := NewRegistry(WithLogger(logger.Nop()), WithStopTimeout(50*time.Millisecond))
	r.Register(c)
	r.StartAll(context.Background())
	start := time.Now()
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if deadline.IsZero() || deadline.Sub(start) > time.Second {
		t.Errorf("expected stop deadline near 50ms, got %v", deadline.Sub(start))
	}
}

type deadlineComponent struct {
	mockComponent
	seen *time.Time
}

func (d *deadlineComponent) Stop(ctx context.Context) error {
	*d.seen, _ = ctx.Deadline()
	return nil
}

func TestHealthy(t *testing.T) {
	r := NewRegistry(WithLogger(logger.Nop()))
	r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	if !r.Healthy(context.Background()) {
		t.Error("expected healthy registry")
	}
	r.Register(&mockComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded}})
	if r.Healthy(context.Background()) {
		t.Error("expected degraded component to make registry unhealthy")
	}
	if len(r.All()) != 2 {
		t.Errorf("expected 2 components, got %d", len(r.All()))
	}
}
