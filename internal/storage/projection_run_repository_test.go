package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

// TestProjectionRunRepositoryIntegration requires a migrated local ClickHouse.
func TestProjectionRunRepositoryIntegration(t *testing.T) {
	db := setupTestClickHouse(t)
	ctx := testContext(t)

	repo := NewProjectionRunRepository(db)
	simulationID := uuid.New().String()

	base := time.Now().UTC().Truncate(time.Second)
	runs := []*models.ProjectionRun{
		{
			SimulationID:     simulationID,
			LifeStatus:       types.StatusAlive,
			AnnualRealRate:   0.04,
			HorizonYears:     30,
			IncludeInsurance: true,
			FinalTotal:       1250000.50,
			DurationMs:       12,
			CreatedAt:        base.Add(-time.Minute),
		},
		{
			SimulationID:     simulationID,
			LifeStatus:       types.StatusDisabled,
			AnnualRealRate:   0.02,
			HorizonYears:     40,
			IncludeInsurance: false,
			FinalTotal:       830000.25,
			DurationMs:       15,
			CreatedAt:        base,
		},
	}
	for _, run := range runs {
		if err := repo.Insert(ctx, run); err != nil {
			t.Fatalf("Insert error = %v", err)
		}
	}

	listed, err := repo.ListBySimulation(ctx, simulationID, 10)
	if err != nil {
		t.Fatalf("ListBySimulation error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListBySimulation returned %d runs, want 2", len(listed))
	}

	// Newest first
	if listed[0].LifeStatus != types.StatusDisabled {
		t.Errorf("first run status = %s, want %s", listed[0].LifeStatus, types.StatusDisabled)
	}
	if listed[0].HorizonYears != 40 {
		t.Errorf("first run horizon = %d, want 40", listed[0].HorizonYears)
	}
	if listed[0].FinalTotal != 830000.25 {
		t.Errorf("first run final total = %f, want 830000.25", listed[0].FinalTotal)
	}

	limited, err := repo.ListBySimulation(ctx, simulationID, 1)
	if err != nil {
		t.Fatalf("ListBySimulation with limit error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListBySimulation with limit returned %d runs, want 1", len(limited))
	}
}
