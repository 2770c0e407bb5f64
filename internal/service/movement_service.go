package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

// MovementRepository interface for movement data operations
type MovementRepository interface {
	Create(ctx context.Context, movement *models.Movement) error
	GetByID(ctx context.Context, id string) (*models.Movement, error)
	ListBySimulation(ctx context.Context, simulationID string) ([]*models.Movement, error)
	Update(ctx context.Context, movement *models.Movement) error
	Delete(ctx context.Context, id string) error
}

// MovementService handles planned cash flows
type MovementService struct {
	movementRepo   MovementRepository
	simulationRepo SimulationRepository
	cache          Cache
}

// NewMovementService creates a new movement service
func NewMovementService(movementRepo MovementRepository, simulationRepo SimulationRepository, cache Cache) *MovementService {
	return &MovementService{
		movementRepo:   movementRepo,
		simulationRepo: simulationRepo,
		cache:          cache,
	}
}

// Input types

// CreateMovementInput represents input for creating a movement
type CreateMovementInput struct {
	SimulationID string                  `json:"simulationId"`
	Direction    types.MovementDirection `json:"direction"`
	Description  string                  `json:"description"`
	Amount       decimal.Decimal         `json:"amount"`
	Recurrence   types.Recurrence        `json:"recurrence"`
	StartDate    types.Date              `json:"startDate"`
	EndDate      *types.Date             `json:"endDate,omitempty"`
}

// UpdateMovementInput represents input for updating a movement
type UpdateMovementInput struct {
	MovementID  string                   `json:"movementId"`
	Direction   *types.MovementDirection `json:"direction,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Amount      *decimal.Decimal         `json:"amount,omitempty"`
	Recurrence  *types.Recurrence        `json:"recurrence,omitempty"`
	StartDate   *types.Date              `json:"startDate,omitempty"`
	EndDate     *types.Date              `json:"endDate,omitempty"`
}

// CreateMovement creates a movement under an existing simulation
func (s *MovementService) CreateMovement(ctx context.Context, input *CreateMovementInput) (*models.Movement, error) {
	if input.SimulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}

	movement := &models.Movement{
		SimulationID: input.SimulationID,
		Direction:    input.Direction,
		Description:  input.Description,
		Amount:       input.Amount,
		Recurrence:   input.Recurrence,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	}
	if serr := validateMovement(movement); serr != nil {
		return nil, serr
	}

	if err := s.requireSimulation(ctx, input.SimulationID); err != nil {
		return nil, err
	}

	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to create movement: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, input.SimulationID)

	return movement, nil
}

// ListMovements lists a simulation's movements
func (s *MovementService) ListMovements(ctx context.Context, simulationID string) ([]*models.Movement, error) {
	if simulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}

	if err := s.requireSimulation(ctx, simulationID); err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.ListBySimulation(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	return movements, nil
}

// UpdateMovement updates an existing movement
func (s *MovementService) UpdateMovement(ctx context.Context, input *UpdateMovementInput) (*models.Movement, error) {
	if input.MovementID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "movementId is required",
		}
	}

	movement, err := s.movementRepo.GetByID(ctx, input.MovementID)
	if err != nil {
		return nil, movementNotFound(input.MovementID)
	}

	if input.Direction != nil {
		movement.Direction = *input.Direction
	}
	if input.Description != nil {
		movement.Description = *input.Description
	}
	if input.Amount != nil {
		movement.Amount = *input.Amount
	}
	if input.Recurrence != nil {
		movement.Recurrence = *input.Recurrence
	}
	if input.StartDate != nil {
		movement.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		movement.EndDate = input.EndDate
	}
	if serr := validateMovement(movement); serr != nil {
		return nil, serr
	}

	if err := s.movementRepo.Update(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to update movement: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, movement.SimulationID)

	return movement, nil
}

// DeleteMovement deletes a movement
func (s *MovementService) DeleteMovement(ctx context.Context, movementID string) error {
	if movementID == "" {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "movementId is required",
		}
	}

	movement, err := s.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return movementNotFound(movementID)
	}

	if err := s.movementRepo.Delete(ctx, movementID); err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, movement.SimulationID)

	return nil
}

// validateMovement enforces the movement invariants shared by create and
// update: valid enums, a positive amount, a start date, and an end date that
// is present for recurring movements and never precedes the start.
func validateMovement(m *models.Movement) *types.ServiceError {
	if !m.Direction.Valid() {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: fmt.Sprintf("unknown movement direction: %s", m.Direction),
		}
	}
	if !m.Recurrence.Valid() {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: fmt.Sprintf("unknown recurrence: %s", m.Recurrence),
		}
	}
	if !m.Amount.IsPositive() {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "amount must be positive",
		}
	}
	if m.StartDate.IsZero() {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "startDate is required",
		}
	}
	if m.Recurrence != types.RecurrenceUnique && m.EndDate == nil {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "endDate is required for recurring movements",
		}
	}
	if m.EndDate != nil && m.EndDate.Before(m.StartDate) {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "endDate cannot precede startDate",
		}
	}
	return nil
}

func (s *MovementService) requireSimulation(ctx context.Context, simulationID string) error {
	exists, err := s.simulationRepo.Exists(ctx, simulationID)
	if err != nil {
		return fmt.Errorf("failed to check simulation existence: %w", err)
	}
	if !exists {
		return simulationNotFound(simulationID)
	}
	return nil
}

func movementNotFound(movementID string) *types.ServiceError {
	return &types.ServiceError{
		Code:    "MOVEMENT_NOT_FOUND",
		Message: fmt.Sprintf("movement not found: %s", movementID),
		Details: map[string]interface{}{
			"movementId": movementID,
		},
	}
}
