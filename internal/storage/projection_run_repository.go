package storage

import (
	"context"

	"github.com/wealth-planner/internal/errors"
	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

// ProjectionRunRepository handles projection audit rows in ClickHouse.
// Rows are append-only and survive deletion of the simulation they recorded.
type ProjectionRunRepository struct {
	db *ClickHouseDB
}

// NewProjectionRunRepository creates a new projection run repository
func NewProjectionRunRepository(db *ClickHouseDB) *ProjectionRunRepository {
	return &ProjectionRunRepository{db: db}
}

// Insert records one projection run
func (r *ProjectionRunRepository) Insert(ctx context.Context, run *models.ProjectionRun) error {
	query := `
		INSERT INTO projection_runs (
			simulation_id, life_status, annual_real_rate, horizon_years,
			include_insurance, final_total, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := r.db.Conn().Exec(ctx, query,
		run.SimulationID,
		string(run.LifeStatus),
		run.AnnualRealRate,
		int32(run.HorizonYears),
		run.IncludeInsurance,
		run.FinalTotal,
		run.DurationMs,
		run.CreatedAt,
	)

	if err != nil {
		return errors.NewDatabaseError("insert projection run", err)
	}

	return nil
}

// ListBySimulation retrieves the most recent projection runs of a simulation
func (r *ProjectionRunRepository) ListBySimulation(ctx context.Context, simulationID string, limit int) ([]*models.ProjectionRun, error) {
	query := `
		SELECT simulation_id, life_status, annual_real_rate, horizon_years,
		       include_insurance, final_total, duration_ms, created_at
		FROM projection_runs
		WHERE simulation_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Conn().Query(ctx, query, simulationID, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("query projection runs", err)
	}
	defer rows.Close()

	var runs []*models.ProjectionRun
	for rows.Next() {
		var run models.ProjectionRun
		var lifeStatus string
		var horizonYears int32

		err := rows.Scan(
			&run.SimulationID,
			&lifeStatus,
			&run.AnnualRealRate,
			&horizonYears,
			&run.IncludeInsurance,
			&run.FinalTotal,
			&run.DurationMs,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, errors.NewDatabaseError("scan projection run", err)
		}

		run.LifeStatus = types.LifeStatus(lifeStatus)
		run.HorizonYears = int(horizonYears)
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("iterate projection runs", err)
	}

	return runs, nil
}
