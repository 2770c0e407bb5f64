package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

// SimulationRepository interface for simulation data operations.
// Duplicate performs the whole deep copy (simulation, allocations with their
// records, movements, insurances) inside a single transaction.
type SimulationRepository interface {
	Create(ctx context.Context, simulation *models.Simulation) error
	GetByID(ctx context.Context, id string) (*models.Simulation, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Simulation, error)
	Update(ctx context.Context, simulation *models.Simulation) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Duplicate(ctx context.Context, simulationID, newName string) (*models.Simulation, error)
}

// SimulationService handles plan scenario management
type SimulationService struct {
	simulationRepo SimulationRepository
	clientRepo     ClientRepository
	cache          Cache
}

// NewSimulationService creates a new simulation service
func NewSimulationService(simulationRepo SimulationRepository, clientRepo ClientRepository, cache Cache) *SimulationService {
	return &SimulationService{
		simulationRepo: simulationRepo,
		clientRepo:     clientRepo,
		cache:          cache,
	}
}

// Input types

// CreateSimulationInput represents input for creating a simulation
type CreateSimulationInput struct {
	ClientID  string          `json:"clientId"`
	Name      string          `json:"name"`
	StartDate types.Date      `json:"startDate"`
	RealRate  decimal.Decimal `json:"realRate"`
}

// UpdateSimulationInput represents input for updating a simulation
type UpdateSimulationInput struct {
	SimulationID string           `json:"simulationId"`
	Name         *string          `json:"name,omitempty"`
	StartDate    *types.Date      `json:"startDate,omitempty"`
	RealRate     *decimal.Decimal `json:"realRate,omitempty"`
}

// CreateSimulation creates a new simulation for an existing client
func (s *SimulationService) CreateSimulation(ctx context.Context, input *CreateSimulationInput) (*models.Simulation, error) {
	if input.ClientID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "clientId is required",
		}
	}
	if input.Name == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulation name is required",
		}
	}
	if input.StartDate.IsZero() {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "startDate is required",
		}
	}
	if input.RealRate.IsNegative() {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "realRate must not be negative",
		}
	}

	exists, err := s.clientRepo.Exists(ctx, input.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check client existence: %w", err)
	}
	if !exists {
		return nil, clientNotFound(input.ClientID)
	}

	simulation := &models.Simulation{
		ClientID:  input.ClientID,
		Name:      input.Name,
		StartDate: input.StartDate,
		RealRate:  input.RealRate,
	}

	if err := s.simulationRepo.Create(ctx, simulation); err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	return simulation, nil
}

// GetSimulation retrieves a simulation by ID
func (s *SimulationService) GetSimulation(ctx context.Context, simulationID string) (*models.Simulation, error) {
	if simulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}

	simulation, err := s.simulationRepo.GetByID(ctx, simulationID)
	if err != nil {
		return nil, simulationNotFound(simulationID)
	}

	return simulation, nil
}

// ListByClient lists a client's simulations
func (s *SimulationService) ListByClient(ctx context.Context, clientID string) ([]*models.Simulation, error) {
	if clientID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "clientId is required",
		}
	}

	exists, err := s.clientRepo.Exists(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check client existence: %w", err)
	}
	if !exists {
		return nil, clientNotFound(clientID)
	}

	simulations, err := s.simulationRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}

	return simulations, nil
}

// UpdateSimulation updates an existing simulation
func (s *SimulationService) UpdateSimulation(ctx context.Context, input *UpdateSimulationInput) (*models.Simulation, error) {
	if input.SimulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}

	simulation, err := s.simulationRepo.GetByID(ctx, input.SimulationID)
	if err != nil {
		return nil, simulationNotFound(input.SimulationID)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, &types.ServiceError{
				Code:    "INVALID_INPUT",
				Message: "simulation name cannot be empty",
			}
		}
		simulation.Name = *input.Name
	}
	if input.StartDate != nil {
		if input.StartDate.IsZero() {
			return nil, &types.ServiceError{
				Code:    "INVALID_INPUT",
				Message: "startDate cannot be empty",
			}
		}
		simulation.StartDate = *input.StartDate
	}
	if input.RealRate != nil {
		if input.RealRate.IsNegative() {
			return nil, &types.ServiceError{
				Code:    "INVALID_INPUT",
				Message: "realRate must not be negative",
			}
		}
		simulation.RealRate = *input.RealRate
	}

	if err := s.simulationRepo.Update(ctx, simulation); err != nil {
		return nil, fmt.Errorf("failed to update simulation: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, simulation.ID)

	return simulation, nil
}

// DeleteSimulation deletes a simulation and everything attached to it
func (s *SimulationService) DeleteSimulation(ctx context.Context, simulationID string) error {
	if simulationID == "" {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}

	exists, err := s.simulationRepo.Exists(ctx, simulationID)
	if err != nil {
		return fmt.Errorf("failed to check simulation existence: %w", err)
	}
	if !exists {
		return simulationNotFound(simulationID)
	}

	if err := s.simulationRepo.Delete(ctx, simulationID); err != nil {
		return fmt.Errorf("failed to delete simulation: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, simulationID)

	return nil
}

// DuplicateSimulation deep-copies a simulation with all its allocations,
// valuation records, movements and insurance policies. The copy happens in
// one transaction; any failure rolls the whole copy back.
func (s *SimulationService) DuplicateSimulation(ctx context.Context, simulationID, newName string) (*models.Simulation, error) {
	if simulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}
	if newName == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "new simulation name is required",
		}
	}

	exists, err := s.simulationRepo.Exists(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check simulation existence: %w", err)
	}
	if !exists {
		return nil, simulationNotFound(simulationID)
	}

	duplicate, err := s.simulationRepo.Duplicate(ctx, simulationID, newName)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate simulation: %w", err)
	}

	return duplicate, nil
}

func simulationNotFound(simulationID string) *types.ServiceError {
	return &types.ServiceError{
		Code:    "SIMULATION_NOT_FOUND",
		Message: fmt.Sprintf("simulation not found: %s", simulationID),
		Details: map[string]interface{}{
			"simulationId": simulationID,
		},
	}
}
