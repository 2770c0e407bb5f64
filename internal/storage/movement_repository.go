package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wealth-planner/internal/models"
)

// MovementRepository handles movement data persistence
type MovementRepository struct {
	db *PostgresDB
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *PostgresDB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Create creates a new movement
func (r *MovementRepository) Create(ctx context.Context, movement *models.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}

	now := time.Now()
	movement.CreatedAt = now
	movement.UpdatedAt = now

	query := `
		INSERT INTO movements (id, simulation_id, direction, description, amount, recurrence, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		movement.ID,
		movement.SimulationID,
		movement.Direction,
		movement.Description,
		movement.Amount,
		movement.Recurrence,
		movement.StartDate,
		movement.EndDate,
		movement.CreatedAt,
		movement.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create movement: %w", err)
	}

	return nil
}

// GetByID retrieves a movement by ID
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*models.Movement, error) {
	query := `
		SELECT id, simulation_id, direction, description, amount, recurrence, start_date, end_date, created_at, updated_at
		FROM movements
		WHERE id = $1
	`

	var movement models.Movement

	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&movement.ID,
		&movement.SimulationID,
		&movement.Direction,
		&movement.Description,
		&movement.Amount,
		&movement.Recurrence,
		&movement.StartDate,
		&movement.EndDate,
		&movement.CreatedAt,
		&movement.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("movement not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get movement: %w", err)
	}

	return &movement, nil
}

// ListBySimulation retrieves all movements of a simulation in the order they
// were registered. Timeline expansion relies on that order to break ties
// between entries falling on the same date.
func (r *MovementRepository) ListBySimulation(ctx context.Context, simulationID string) ([]*models.Movement, error) {
	query := `
		SELECT id, simulation_id, direction, description, amount, recurrence, start_date, end_date, created_at, updated_at
		FROM movements
		WHERE simulation_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []*models.Movement
	for rows.Next() {
		var movement models.Movement
		if err := rows.Scan(
			&movement.ID,
			&movement.SimulationID,
			&movement.Direction,
			&movement.Description,
			&movement.Amount,
			&movement.Recurrence,
			&movement.StartDate,
			&movement.EndDate,
			&movement.CreatedAt,
			&movement.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, &movement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}

	return movements, nil
}

// Update updates an existing movement
func (r *MovementRepository) Update(ctx context.Context, movement *models.Movement) error {
	movement.UpdatedAt = time.Now()

	query := `
		UPDATE movements
		SET direction = $2, description = $3, amount = $4, recurrence = $5, start_date = $6, end_date = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query,
		movement.ID,
		movement.Direction,
		movement.Description,
		movement.Amount,
		movement.Recurrence,
		movement.StartDate,
		movement.EndDate,
		movement.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update movement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movement not found: %s", movement.ID)
	}

	return nil
}

// Delete deletes a movement
func (r *MovementRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM movements WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movement not found: %s", id)
	}

	return nil
}
