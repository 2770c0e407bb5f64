package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/service"
	"github.com/wealth-planner/internal/types"
)

// SnapshotRepository assembles the engine-facing view of a simulation.
// It satisfies the service layer's SnapshotProvider interface.
type SnapshotRepository struct {
	db *PostgresDB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *PostgresDB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Snapshot loads a simulation with its allocations, valuation histories,
// movements and insurance policies in one pass. Histories come back ordered
// by (record_date, created_at) and movements by creation order, which the
// resolver and the timeline expander rely on for tie-breaking.
func (r *SnapshotRepository) Snapshot(ctx context.Context, simulationID string) (*service.PlanSnapshot, error) {
	simulation, err := r.loadSimulation(ctx, simulationID)
	if err != nil {
		return nil, err
	}

	assets, err := r.loadAssets(ctx, simulationID)
	if err != nil {
		return nil, err
	}

	movements, err := r.loadMovements(ctx, simulationID)
	if err != nil {
		return nil, err
	}

	policies, err := r.loadPolicies(ctx, simulationID)
	if err != nil {
		return nil, err
	}

	return &service.PlanSnapshot{
		Simulation: simulation,
		Assets:     assets,
		Movements:  movements,
		Policies:   policies,
	}, nil
}

func (r *SnapshotRepository) loadSimulation(ctx context.Context, simulationID string) (*models.Simulation, error) {
	query := `
		SELECT id, client_id, name, start_date, real_rate, created_at, updated_at
		FROM simulations
		WHERE id = $1
	`

	var simulation models.Simulation

	err := r.db.Pool().QueryRow(ctx, query, simulationID).Scan(
		&simulation.ID,
		&simulation.ClientID,
		&simulation.Name,
		&simulation.StartDate,
		&simulation.RealRate,
		&simulation.CreatedAt,
		&simulation.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &types.ServiceError{
				Code:    "SIMULATION_NOT_FOUND",
				Message: fmt.Sprintf("simulation not found: %s", simulationID),
				Details: map[string]interface{}{
					"simulationId": simulationID,
				},
			}
		}
		return nil, fmt.Errorf("failed to load simulation: %w", err)
	}

	return &simulation, nil
}

func (r *SnapshotRepository) loadAssets(ctx context.Context, simulationID string) ([]service.AssetSnapshot, error) {
	query := `
		SELECT id, category, nominal_value
		FROM allocations
		WHERE simulation_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations: %w", err)
	}
	defer rows.Close()

	var assets []service.AssetSnapshot
	var allocationIDs []string
	for rows.Next() {
		var id string
		var asset service.AssetSnapshot
		if err := rows.Scan(&id, &asset.Category, &asset.NominalValue); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		assets = append(assets, asset)
		allocationIDs = append(allocationIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}

	if len(assets) == 0 {
		return nil, nil
	}

	histories, err := r.loadValuationHistories(ctx, simulationID)
	if err != nil {
		return nil, err
	}

	for i, id := range allocationIDs {
		assets[i].ValuationHistory = histories[id]
	}

	return assets, nil
}

// loadValuationHistories fetches every valuation record of a simulation in a
// single query and groups them by allocation, keeping date-then-insertion order.
func (r *SnapshotRepository) loadValuationHistories(ctx context.Context, simulationID string) (map[string][]service.ValuationRecord, error) {
	query := `
		SELECT ar.allocation_id, ar.record_date, ar.value
		FROM asset_records ar
		JOIN allocations a ON a.id = ar.allocation_id
		WHERE a.simulation_id = $1
		ORDER BY ar.record_date, ar.created_at, ar.id
	`

	rows, err := r.db.Pool().Query(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load valuation records: %w", err)
	}
	defer rows.Close()

	histories := make(map[string][]service.ValuationRecord)
	for rows.Next() {
		var allocationID string
		var record service.ValuationRecord
		if err := rows.Scan(&allocationID, &record.Date, &record.Value); err != nil {
			return nil, fmt.Errorf("failed to scan valuation record: %w", err)
		}
		histories[allocationID] = append(histories[allocationID], record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate valuation records: %w", err)
	}

	return histories, nil
}

func (r *SnapshotRepository) loadMovements(ctx context.Context, simulationID string) ([]service.RecurringMovement, error) {
	query := `
		SELECT id, direction, description, amount, recurrence, start_date, end_date
		FROM movements
		WHERE simulation_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	defer rows.Close()

	var movements []service.RecurringMovement
	for rows.Next() {
		var movement service.RecurringMovement
		if err := rows.Scan(
			&movement.ID,
			&movement.Direction,
			&movement.Description,
			&movement.Amount,
			&movement.Recurrence,
			&movement.StartDate,
			&movement.EndDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}

	return movements, nil
}

func (r *SnapshotRepository) loadPolicies(ctx context.Context, simulationID string) ([]service.PolicySnapshot, error) {
	query := `
		SELECT insured_value
		FROM insurances
		WHERE simulation_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load insurances: %w", err)
	}
	defer rows.Close()

	var policies []service.PolicySnapshot
	for rows.Next() {
		var policy service.PolicySnapshot
		if err := rows.Scan(&policy.InsuredValue); err != nil {
			return nil, fmt.Errorf("failed to scan insurance: %w", err)
		}
		policies = append(policies, policy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insurances: %w", err)
	}

	return policies, nil
}
