package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

// InsuranceRepository interface for insurance policy data operations
type InsuranceRepository interface {
	Create(ctx context.Context, policy *models.InsurancePolicy) error
	GetByID(ctx context.Context, id string) (*models.InsurancePolicy, error)
	ListBySimulation(ctx context.Context, simulationID string) ([]*models.InsurancePolicy, error)
	Update(ctx context.Context, policy *models.InsurancePolicy) error
	Delete(ctx context.Context, id string) error
}

// InsuranceService handles insurance policies attached to simulations
type InsuranceService struct {
	insuranceRepo  InsuranceRepository
	simulationRepo SimulationRepository
	cache          Cache
}

// NewInsuranceService creates a new insurance service
func NewInsuranceService(insuranceRepo InsuranceRepository, simulationRepo SimulationRepository, cache Cache) *InsuranceService {
	return &InsuranceService{
		insuranceRepo:  insuranceRepo,
		simulationRepo: simulationRepo,
		cache:          cache,
	}
}

// Input types

// CreateInsuranceInput represents input for creating an insurance policy
type CreateInsuranceInput struct {
	SimulationID   string          `json:"simulationId"`
	Name           string          `json:"name"`
	InsuredValue   decimal.Decimal `json:"insuredValue"`
	MonthlyPremium decimal.Decimal `json:"monthlyPremium"`
	StartDate      types.Date      `json:"startDate"`
	DurationMonths int             `json:"durationMonths"`
}

// UpdateInsuranceInput represents input for updating an insurance policy
type UpdateInsuranceInput struct {
	InsuranceID    string           `json:"insuranceId"`
	Name           *string          `json:"name,omitempty"`
	InsuredValue   *decimal.Decimal `json:"insuredValue,omitempty"`
	MonthlyPremium *decimal.Decimal `json:"monthlyPremium,omitempty"`
	StartDate      *types.Date      `json:"startDate,omitempty"`
	DurationMonths *int             `json:"durationMonths,omitempty"`
}

// CreateInsurance creates an insurance policy under an existing simulation
func (s *InsuranceService) CreateInsurance(ctx context.Context, input *CreateInsuranceInput) (*models.InsurancePolicy, error) {
	if input.SimulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}

	policy := &models.InsurancePolicy{
		SimulationID:   input.SimulationID,
		Name:           input.Name,
		InsuredValue:   input.InsuredValue,
		MonthlyPremium: input.MonthlyPremium,
		StartDate:      input.StartDate,
		DurationMonths: input.DurationMonths,
	}
	if serr := validateInsurance(policy); serr != nil {
		return nil, serr
	}

	if err := s.requireSimulation(ctx, input.SimulationID); err != nil {
		return nil, err
	}

	if err := s.insuranceRepo.Create(ctx, policy); err != nil {
		return nil, fmt.Errorf("failed to create insurance: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, input.SimulationID)

	return policy, nil
}

// ListInsurances lists a simulation's insurance policies
func (s *InsuranceService) ListInsurances(ctx context.Context, simulationID string) ([]*models.InsurancePolicy, error) {
	if simulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}

	if err := s.requireSimulation(ctx, simulationID); err != nil {
		return nil, err
	}

	policies, err := s.insuranceRepo.ListBySimulation(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insurances: %w", err)
	}

	return policies, nil
}

// UpdateInsurance updates an existing insurance policy
func (s *InsuranceService) UpdateInsurance(ctx context.Context, input *UpdateInsuranceInput) (*models.InsurancePolicy, error) {
	if input.InsuranceID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "insuranceId is required",
		}
	}

	policy, err := s.insuranceRepo.GetByID(ctx, input.InsuranceID)
	if err != nil {
		return nil, insuranceNotFound(input.InsuranceID)
	}

	if input.Name != nil {
		policy.Name = *input.Name
	}
	if input.InsuredValue != nil {
		policy.InsuredValue = *input.InsuredValue
	}
	if input.MonthlyPremium != nil {
		policy.MonthlyPremium = *input.MonthlyPremium
	}
	if input.StartDate != nil {
		policy.StartDate = *input.StartDate
	}
	if input.DurationMonths != nil {
		policy.DurationMonths = *input.DurationMonths
	}
	if serr := validateInsurance(policy); serr != nil {
		return nil, serr
	}

	if err := s.insuranceRepo.Update(ctx, policy); err != nil {
		return nil, fmt.Errorf("failed to update insurance: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, policy.SimulationID)

	return policy, nil
}

// DeleteInsurance deletes an insurance policy
func (s *InsuranceService) DeleteInsurance(ctx context.Context, insuranceID string) error {
	if insuranceID == "" {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "insuranceId is required",
		}
	}

	policy, err := s.insuranceRepo.GetByID(ctx, insuranceID)
	if err != nil {
		return insuranceNotFound(insuranceID)
	}

	if err := s.insuranceRepo.Delete(ctx, insuranceID); err != nil {
		return fmt.Errorf("failed to delete insurance: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, policy.SimulationID)

	return nil
}

func validateInsurance(p *models.InsurancePolicy) *types.ServiceError {
	if p.Name == "" {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "name is required",
		}
	}
	if p.InsuredValue.IsNegative() {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "insuredValue cannot be negative",
		}
	}
	if p.MonthlyPremium.IsNegative() {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "monthlyPremium cannot be negative",
		}
	}
	if p.StartDate.IsZero() {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "startDate is required",
		}
	}
	if p.DurationMonths <= 0 {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "durationMonths must be positive",
		}
	}
	return nil
}

func (s *InsuranceService) requireSimulation(ctx context.Context, simulationID string) error {
	exists, err := s.simulationRepo.Exists(ctx, simulationID)
	if err != nil {
		return fmt.Errorf("failed to check simulation existence: %w", err)
	}
	if !exists {
		return simulationNotFound(simulationID)
	}
	return nil
}

func insuranceNotFound(insuranceID string) *types.ServiceError {
	return &types.ServiceError{
		Code:    "INSURANCE_NOT_FOUND",
		Message: fmt.Sprintf("insurance not found: %s", insuranceID),
		Details: map[string]interface{}{
			"insuranceId": insuranceID,
		},
	}
}
