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

// InsuranceRepository handles insurance policy persistence
type InsuranceRepository struct {
	db *PostgresDB
}

// NewInsuranceRepository creates a new insurance repository
func NewInsuranceRepository(db *PostgresDB) *InsuranceRepository {
	return &InsuranceRepository{db: db}
}

// Create creates a new insurance policy
func (r *InsuranceRepository) Create(ctx context.Context, policy *models.InsurancePolicy) error {
	if policy.ID == "" {
		policy.ID = uuid.New().String()
	}

	now := time.Now()
	policy.CreatedAt = now
	policy.UpdatedAt = now

	query := `
		INSERT INTO insurances (id, simulation_id, name, insured_value, monthly_premium, start_date, duration_months, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		policy.ID,
		policy.SimulationID,
		policy.Name,
		policy.InsuredValue,
		policy.MonthlyPremium,
		policy.StartDate,
		policy.DurationMonths,
		policy.CreatedAt,
		policy.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create insurance: %w", err)
	}

	return nil
}

// GetByID retrieves an insurance policy by ID
func (r *InsuranceRepository) GetByID(ctx context.Context, id string) (*models.InsurancePolicy, error) {
	query := `
		SELECT id, simulation_id, name, insured_value, monthly_premium, start_date, duration_months, created_at, updated_at
		FROM insurances
		WHERE id = $1
	`

	var policy models.InsurancePolicy

	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&policy.ID,
		&policy.SimulationID,
		&policy.Name,
		&policy.InsuredValue,
		&policy.MonthlyPremium,
		&policy.StartDate,
		&policy.DurationMonths,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("insurance not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get insurance: %w", err)
	}

	return &policy, nil
}

// ListBySimulation retrieves all insurance policies of a simulation, oldest first
func (r *InsuranceRepository) ListBySimulation(ctx context.Context, simulationID string) ([]*models.InsurancePolicy, error) {
	query := `
		SELECT id, simulation_id, name, insured_value, monthly_premium, start_date, duration_months, created_at, updated_at
		FROM insurances
		WHERE simulation_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insurances: %w", err)
	}
	defer rows.Close()

	var policies []*models.InsurancePolicy
	for rows.Next() {
		var policy models.InsurancePolicy
		if err := rows.Scan(
			&policy.ID,
			&policy.SimulationID,
			&policy.Name,
			&policy.InsuredValue,
			&policy.MonthlyPremium,
			&policy.StartDate,
			&policy.DurationMonths,
			&policy.CreatedAt,
			&policy.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan insurance: %w", err)
		}
		policies = append(policies, &policy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insurances: %w", err)
	}

	return policies, nil
}

// Update updates an existing insurance policy
func (r *InsuranceRepository) Update(ctx context.Context, policy *models.InsurancePolicy) error {
	policy.UpdatedAt = time.Now()

	query := `
		UPDATE insurances
		SET name = $2, insured_value = $3, monthly_premium = $4, start_date = $5, duration_months = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query,
		policy.ID,
		policy.Name,
		policy.InsuredValue,
		policy.MonthlyPremium,
		policy.StartDate,
		policy.DurationMonths,
		policy.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update insurance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("insurance not found: %s", policy.ID)
	}

	return nil
}

// Delete deletes an insurance policy
func (r *InsuranceRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM insurances WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete insurance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("insurance not found: %s", id)
	}

	return nil
}
