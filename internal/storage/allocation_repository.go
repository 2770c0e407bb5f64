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

// AllocationRepository handles allocation and valuation record persistence
type AllocationRepository struct {
	db *PostgresDB
}

// NewAllocationRepository creates a new allocation repository
func NewAllocationRepository(db *PostgresDB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// Create creates a new allocation
func (r *AllocationRepository) Create(ctx context.Context, allocation *models.Allocation) error {
	if allocation.ID == "" {
		allocation.ID = uuid.New().String()
	}

	now := time.Now()
	allocation.CreatedAt = now
	allocation.UpdatedAt = now

	query := `
		INSERT INTO allocations (id, simulation_id, category, name, nominal_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		allocation.ID,
		allocation.SimulationID,
		allocation.Category,
		allocation.Name,
		allocation.NominalValue,
		allocation.CreatedAt,
		allocation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create allocation: %w", err)
	}

	return nil
}

// GetByID retrieves an allocation by ID
func (r *AllocationRepository) GetByID(ctx context.Context, id string) (*models.Allocation, error) {
	query := `
		SELECT id, simulation_id, category, name, nominal_value, created_at, updated_at
		FROM allocations
		WHERE id = $1
	`

	var allocation models.Allocation

	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&allocation.ID,
		&allocation.SimulationID,
		&allocation.Category,
		&allocation.Name,
		&allocation.NominalValue,
		&allocation.CreatedAt,
		&allocation.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("allocation not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}

	return &allocation, nil
}

// ListBySimulation retrieves all allocations of a simulation, oldest first
func (r *AllocationRepository) ListBySimulation(ctx context.Context, simulationID string) ([]*models.Allocation, error) {
	query := `
		SELECT id, simulation_id, category, name, nominal_value, created_at, updated_at
		FROM allocations
		WHERE simulation_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []*models.Allocation
	for rows.Next() {
		var allocation models.Allocation
		if err := rows.Scan(
			&allocation.ID,
			&allocation.SimulationID,
			&allocation.Category,
			&allocation.Name,
			&allocation.NominalValue,
			&allocation.CreatedAt,
			&allocation.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, &allocation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}

	return allocations, nil
}

// Update updates an existing allocation
func (r *AllocationRepository) Update(ctx context.Context, allocation *models.Allocation) error {
	allocation.UpdatedAt = time.Now()

	query := `
		UPDATE allocations
		SET category = $2, name = $3, nominal_value = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query,
		allocation.ID,
		allocation.Category,
		allocation.Name,
		allocation.NominalValue,
		allocation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update allocation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("allocation not found: %s", allocation.ID)
	}

	return nil
}

// Delete deletes an allocation and, through foreign keys, its valuation records
func (r *AllocationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM allocations WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("allocation not found: %s", id)
	}

	return nil
}

// AddRecord appends a dated valuation record to an allocation
func (r *AllocationRepository) AddRecord(ctx context.Context, record *models.AssetRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	record.CreatedAt = time.Now()

	query := `
		INSERT INTO asset_records (id, allocation_id, record_date, value, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		record.ID,
		record.AllocationID,
		record.RecordDate,
		record.Value,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add valuation record: %w", err)
	}

	return nil
}

// ListRecords retrieves the valuation history of an allocation ordered by
// record date, then insertion order within a date.
func (r *AllocationRepository) ListRecords(ctx context.Context, allocationID string) ([]*models.AssetRecord, error) {
	query := `
		SELECT id, allocation_id, record_date, value, created_at
		FROM asset_records
		WHERE allocation_id = $1
		ORDER BY record_date, created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuation records: %w", err)
	}
	defer rows.Close()

	var records []*models.AssetRecord
	for rows.Next() {
		var record models.AssetRecord
		if err := rows.Scan(
			&record.ID,
			&record.AllocationID,
			&record.RecordDate,
			&record.Value,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan valuation record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate valuation records: %w", err)
	}

	return records, nil
}
