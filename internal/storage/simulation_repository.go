package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/models"
)

// SimulationRepository handles simulation data persistence
type SimulationRepository struct {
	db *PostgresDB
}

// NewSimulationRepository creates a new simulation repository
func NewSimulationRepository(db *PostgresDB) *SimulationRepository {
	return &SimulationRepository{db: db}
}

// Create creates a new simulation
func (r *SimulationRepository) Create(ctx context.Context, simulation *models.Simulation) error {
	if simulation.ID == "" {
		simulation.ID = uuid.New().String()
	}

	now := time.Now()
	simulation.CreatedAt = now
	simulation.UpdatedAt = now

	query := `
		INSERT INTO simulations (id, client_id, name, start_date, real_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		simulation.ID,
		simulation.ClientID,
		simulation.Name,
		simulation.StartDate,
		simulation.RealRate,
		simulation.CreatedAt,
		simulation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create simulation: %w", err)
	}

	return nil
}

// GetByID retrieves a simulation by ID
func (r *SimulationRepository) GetByID(ctx context.Context, id string) (*models.Simulation, error) {
	query := `
		SELECT id, client_id, name, start_date, real_rate, created_at, updated_at
		FROM simulations
		WHERE id = $1
	`

	var simulation models.Simulation

	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
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
			return nil, fmt.Errorf("simulation not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}

	return &simulation, nil
}

// ListByClient retrieves all simulations of a client, oldest first
func (r *SimulationRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Simulation, error) {
	query := `
		SELECT id, client_id, name, start_date, real_rate, created_at, updated_at
		FROM simulations
		WHERE client_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	defer rows.Close()

	var simulations []*models.Simulation
	for rows.Next() {
		var simulation models.Simulation
		if err := rows.Scan(
			&simulation.ID,
			&simulation.ClientID,
			&simulation.Name,
			&simulation.StartDate,
			&simulation.RealRate,
			&simulation.CreatedAt,
			&simulation.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan simulation: %w", err)
		}
		simulations = append(simulations, &simulation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate simulations: %w", err)
	}

	return simulations, nil
}

// Update updates an existing simulation
func (r *SimulationRepository) Update(ctx context.Context, simulation *models.Simulation) error {
	simulation.UpdatedAt = time.Now()

	query := `
		UPDATE simulations
		SET name = $2, start_date = $3, real_rate = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query,
		simulation.ID,
		simulation.Name,
		simulation.StartDate,
		simulation.RealRate,
		simulation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update simulation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("simulation not found: %s", simulation.ID)
	}

	return nil
}

// Delete deletes a simulation and, through foreign keys, all its children
func (r *SimulationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM simulations WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete simulation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("simulation not found: %s", id)
	}

	return nil
}

// Exists checks if a simulation exists
func (r *SimulationRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM simulations WHERE id = $1)`

	var exists bool
	if err := r.db.Pool().QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check simulation existence: %w", err)
	}

	return exists, nil
}

// allocationCopy carries one allocation across a duplication together with
// the source ID its valuation records are attached to.
type allocationCopy struct {
	oldID     string
	newID     string
	category  string
	name      string
	nominal   *decimal.Decimal
	createdAt time.Time
	updatedAt time.Time
}

// Duplicate deep-copies a simulation with all its allocations, valuation
// records, movements and insurances inside one transaction. Child rows keep
// their original created_at so resolver and expander tie-breaks carry over
// to the copy.
func (r *SimulationRepository) Duplicate(ctx context.Context, simulationID, newName string) (*models.Simulation, error) {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op once committed
	}()

	var source models.Simulation
	err = tx.QueryRow(ctx, `
		SELECT id, client_id, name, start_date, real_rate
		FROM simulations
		WHERE id = $1
	`, simulationID).Scan(
		&source.ID,
		&source.ClientID,
		&source.Name,
		&source.StartDate,
		&source.RealRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("simulation not found: %s", simulationID)
		}
		return nil, fmt.Errorf("failed to load simulation: %w", err)
	}

	now := time.Now()
	duplicate := &models.Simulation{
		ID:        uuid.New().String(),
		ClientID:  source.ClientID,
		Name:      newName,
		StartDate: source.StartDate,
		RealRate:  source.RealRate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO simulations (id, client_id, name, start_date, real_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		duplicate.ID,
		duplicate.ClientID,
		duplicate.Name,
		duplicate.StartDate,
		duplicate.RealRate,
		duplicate.CreatedAt,
		duplicate.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to copy simulation: %w", err)
	}

	copies, err := loadAllocationCopies(ctx, tx, simulationID)
	if err != nil {
		return nil, err
	}

	for _, c := range copies {
		_, err = tx.Exec(ctx, `
			INSERT INTO allocations (id, simulation_id, category, name, nominal_value, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, c.newID, duplicate.ID, c.category, c.name, c.nominal, c.createdAt, c.updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to copy allocation: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO asset_records (id, allocation_id, record_date, value, created_at)
			SELECT gen_random_uuid()::text, $1, record_date, value, created_at
			FROM asset_records
			WHERE allocation_id = $2
		`, c.newID, c.oldID)
		if err != nil {
			return nil, fmt.Errorf("failed to copy valuation records: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO movements (id, simulation_id, direction, description, amount, recurrence, start_date, end_date, created_at, updated_at)
		SELECT gen_random_uuid()::text, $1, direction, description, amount, recurrence, start_date, end_date, created_at, updated_at
		FROM movements
		WHERE simulation_id = $2
	`, duplicate.ID, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to copy movements: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO insurances (id, simulation_id, name, insured_value, monthly_premium, start_date, duration_months, created_at, updated_at)
		SELECT gen_random_uuid()::text, $1, name, insured_value, monthly_premium, start_date, duration_months, created_at, updated_at
		FROM insurances
		WHERE simulation_id = $2
	`, duplicate.ID, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to copy insurances: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit duplication: %w", err)
	}

	return duplicate, nil
}

func loadAllocationCopies(ctx context.Context, tx pgx.Tx, simulationID string) ([]allocationCopy, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, category, name, nominal_value, created_at, updated_at
		FROM allocations
		WHERE simulation_id = $1
		ORDER BY created_at, id
	`, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations: %w", err)
	}
	defer rows.Close()

	var copies []allocationCopy
	for rows.Next() {
		var c allocationCopy
		if err := rows.Scan(&c.oldID, &c.category, &c.name, &c.nominal, &c.createdAt, &c.updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		c.newID = uuid.New().String()
		copies = append(copies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}

	return copies, nil
}
