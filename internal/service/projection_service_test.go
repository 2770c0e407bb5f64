package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

type mockSnapshotProvider struct {
	snapshots map[string]*PlanSnapshot
	calls     int
}

func (m *mockSnapshotProvider) Snapshot(ctx context.Context, simulationID string) (*PlanSnapshot, error) {
	m.calls++
	if s, ok := m.snapshots[simulationID]; ok {
		return s, nil
	}
	return nil, &types.ServiceError{
		Code:    "SIMULATION_NOT_FOUND",
		Message: fmt.Sprintf("simulation not found: %s", simulationID),
	}
}

type mockRunRepo struct {
	runs      []*models.ProjectionRun
	insertErr error
}

func (m *mockRunRepo) Insert(ctx context.Context, run *models.ProjectionRun) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRunRepo) ListBySimulation(ctx context.Context, simulationID string, limit int) ([]*models.ProjectionRun, error) {
	var result []*models.ProjectionRun
	for _, r := range m.runs {
		if r.SimulationID == simulationID {
			result = append(result, r)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func TestRunProjectionComputesCachesAndAudits(t *testing.T) {
	ctx := context.Background()
	provider := &mockSnapshotProvider{snapshots: map[string]*PlanSnapshot{"sim-1": testSnapshot()}}
	cache := newMockCache()
	runRepo := &mockRunRepo{}
	svc := NewProjectionService(provider, cache, runRepo)

	params := testParams(types.StatusAlive, 0.04, 30, true)
	result, err := svc.RunProjection(ctx, params)
	if err != nil {
		t.Fatalf("Failed to run projection: %v", err)
	}

	if len(result.Total) != 30 {
		t.Fatalf("Expected 30 projected years, got %d", len(result.Total))
	}
	if provider.calls != 1 {
		t.Errorf("Expected 1 snapshot load, got %d", provider.calls)
	}
	if len(cache.store) != 1 {
		t.Errorf("Expected 1 cached entry, got %d", len(cache.store))
	}
	if len(runRepo.runs) != 1 {
		t.Fatalf("Expected 1 audit row, got %d", len(runRepo.runs))
	}

	run := runRepo.runs[0]
	if run.SimulationID != "sim-1" {
		t.Errorf("Expected audit row for sim-1, got '%s'", run.SimulationID)
	}
	if run.FinalTotal != result.Total[len(result.Total)-1] {
		t.Errorf("Expected audit final total %f, got %f", result.Total[len(result.Total)-1], run.FinalTotal)
	}
	if run.LifeStatus != "VIVO" {
		t.Errorf("Expected audit life status VIVO, got '%s'", run.LifeStatus)
	}
}

func TestRunProjectionServesCachedResult(t *testing.T) {
	ctx := context.Background()
	provider := &mockSnapshotProvider{snapshots: map[string]*PlanSnapshot{"sim-1": testSnapshot()}}
	cache := newMockCache()
	runRepo := &mockRunRepo{}
	svc := NewProjectionService(provider, cache, runRepo)

	params := testParams(types.StatusDisabled, 0.043, 40, true)
	first, err := svc.RunProjection(ctx, params)
	if err != nil {
		t.Fatalf("Failed to run projection: %v", err)
	}

	second, err := svc.RunProjection(ctx, params)
	if err != nil {
		t.Fatalf("Failed to run cached projection: %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("Expected cached call to skip the snapshot load, provider called %d times", provider.calls)
	}
	if len(runRepo.runs) != 1 {
		t.Errorf("Expected no audit row for a cache hit, got %d rows", len(runRepo.runs))
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected cached result to equal the computed result")
	}
}

func TestRunProjectionValidatesBeforeAnyIO(t *testing.T) {
	ctx := context.Background()
	provider := &mockSnapshotProvider{snapshots: map[string]*PlanSnapshot{"sim-1": testSnapshot()}}
	cache := newMockCache()
	runRepo := &mockRunRepo{}
	svc := NewProjectionService(provider, cache, runRepo)

	_, err := svc.RunProjection(ctx, testParams(types.StatusAlive, 0.04, 0, true))
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}
	if code := serviceErrorCode(t, err); code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %s", code)
	}
	if provider.calls != 0 {
		t.Errorf("Expected no snapshot load for invalid parameters, got %d", provider.calls)
	}
	if len(cache.store) != 0 {
		t.Errorf("Expected cache untouched, got %d entries", len(cache.store))
	}
	if len(runRepo.runs) != 0 {
		t.Errorf("Expected no audit rows, got %d", len(runRepo.runs))
	}
}

func TestRunProjectionUnknownSimulation(t *testing.T) {
	ctx := context.Background()
	provider := &mockSnapshotProvider{snapshots: map[string]*PlanSnapshot{}}
	svc := NewProjectionService(provider, newMockCache(), &mockRunRepo{})

	params := testParams(types.StatusAlive, 0.04, 30, true)
	params.SimulationID = "missing-sim"
	_, err := svc.RunProjection(ctx, params)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if code := serviceErrorCode(t, err); code != "SIMULATION_NOT_FOUND" {
		t.Errorf("Expected SIMULATION_NOT_FOUND, got %s", code)
	}
}

func TestRunProjectionAuditFailureDoesNotFailTheRequest(t *testing.T) {
	ctx := context.Background()
	provider := &mockSnapshotProvider{snapshots: map[string]*PlanSnapshot{"sim-1": testSnapshot()}}
	runRepo := &mockRunRepo{insertErr: errors.New("clickhouse unavailable")}
	svc := NewProjectionService(provider, newMockCache(), runRepo)

	result, err := svc.RunProjection(ctx, testParams(types.StatusAlive, 0.04, 10, true))
	if err != nil {
		t.Fatalf("Projection should succeed when auditing fails: %v", err)
	}
	if len(result.Total) != 10 {
		t.Errorf("Expected 10 projected years, got %d", len(result.Total))
	}
}

func TestRunProjectionWithoutCacheOrAudit(t *testing.T) {
	ctx := context.Background()
	provider := &mockSnapshotProvider{snapshots: map[string]*PlanSnapshot{"sim-1": testSnapshot()}}
	svc := NewProjectionService(provider, nil, nil)

	result, err := svc.RunProjection(ctx, testParams(types.StatusAlive, 0.04, 5, true))
	if err != nil {
		t.Fatalf("Projection should run without cache and audit repo: %v", err)
	}
	if len(result.Total) != 5 {
		t.Errorf("Expected 5 projected years, got %d", len(result.Total))
	}
}

func TestProjectionHistory(t *testing.T) {
	ctx := context.Background()
	runRepo := &mockRunRepo{runs: []*models.ProjectionRun{
		{SimulationID: "sim-1", LifeStatus: "VIVO", HorizonYears: 30},
		{SimulationID: "sim-1", LifeStatus: "MORTO", HorizonYears: 30},
		{SimulationID: "sim-2", LifeStatus: "VIVO", HorizonYears: 10},
	}}
	svc := NewProjectionService(&mockSnapshotProvider{}, nil, runRepo)

	runs, err := svc.History(ctx, "sim-1", 0)
	if err != nil {
		t.Fatalf("Failed to list history: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("Expected 2 audit rows for sim-1, got %d", len(runs))
	}

	_, err = svc.History(ctx, "", 10)
	if err == nil {
		t.Fatal("Expected error for missing simulation id, got nil")
	}
	if code := serviceErrorCode(t, err); code != "INVALID_INPUT" {
		t.Errorf("Expected INVALID_INPUT, got %s", code)
	}
}
