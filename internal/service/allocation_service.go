package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

// AllocationRepository interface for allocation data operations
type AllocationRepository interface {
	Create(ctx context.Context, allocation *models.Allocation) error
	GetByID(ctx context.Context, id string) (*models.Allocation, error)
	ListBySimulation(ctx context.Context, simulationID string) ([]*models.Allocation, error)
	Update(ctx context.Context, allocation *models.Allocation) error
	Delete(ctx context.Context, id string) error
	AddRecord(ctx context.Context, record *models.AssetRecord) error
	ListRecords(ctx context.Context, allocationID string) ([]*models.AssetRecord, error)
}

// AllocationService handles asset allocations and their valuation history
type AllocationService struct {
	allocationRepo AllocationRepository
	simulationRepo SimulationRepository
	cache          Cache
}

// NewAllocationService creates a new allocation service
func NewAllocationService(allocationRepo AllocationRepository, simulationRepo SimulationRepository, cache Cache) *AllocationService {
	return &AllocationService{
		allocationRepo: allocationRepo,
		simulationRepo: simulationRepo,
		cache:          cache,
	}
}

// Input types

// CreateAllocationInput represents input for creating an allocation
type CreateAllocationInput struct {
	SimulationID string              `json:"simulationId"`
	Category     types.AssetCategory `json:"category"`
	Name         string              `json:"name"`
	NominalValue *decimal.Decimal    `json:"nominalValue,omitempty"`
}

// UpdateAllocationInput represents input for updating an allocation
type UpdateAllocationInput struct {
	AllocationID string               `json:"allocationId"`
	Category     *types.AssetCategory `json:"category,omitempty"`
	Name         *string              `json:"name,omitempty"`
	NominalValue *decimal.Decimal     `json:"nominalValue,omitempty"`
}

// AddRecordInput represents input for appending a valuation record
type AddRecordInput struct {
	AllocationID string          `json:"allocationId"`
	RecordDate   types.Date      `json:"recordDate"`
	Value        decimal.Decimal `json:"value"`
}

// CreateAllocation creates an allocation under an existing simulation
func (s *AllocationService) CreateAllocation(ctx context.Context, input *CreateAllocationInput) (*models.Allocation, error) {
	if input.SimulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}
	if !input.Category.Valid() {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: fmt.Sprintf("unknown asset category: %s", input.Category),
		}
	}
	if input.Name == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "allocation name is required",
		}
	}
	if input.NominalValue != nil && input.NominalValue.IsNegative() {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "nominalValue must not be negative",
		}
	}

	if err := s.requireSimulation(ctx, input.SimulationID); err != nil {
		return nil, err
	}

	allocation := &models.Allocation{
		SimulationID: input.SimulationID,
		Category:     input.Category,
		Name:         input.Name,
		NominalValue: input.NominalValue,
	}

	if err := s.allocationRepo.Create(ctx, allocation); err != nil {
		return nil, fmt.Errorf("failed to create allocation: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, input.SimulationID)

	return allocation, nil
}

// AllocationView is an allocation together with its valuation history
type AllocationView struct {
	*models.Allocation
	Records []*models.AssetRecord `json:"records"`
}

// ListAllocations lists a simulation's allocations with their valuation
// records attached.
func (s *AllocationService) ListAllocations(ctx context.Context, simulationID string) ([]*AllocationView, error) {
	if simulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}

	if err := s.requireSimulation(ctx, simulationID); err != nil {
		return nil, err
	}

	allocations, err := s.allocationRepo.ListBySimulation(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}

	views := make([]*AllocationView, 0, len(allocations))
	for _, allocation := range allocations {
		records, err := s.allocationRepo.ListRecords(ctx, allocation.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list valuation records: %w", err)
		}
		if records == nil {
			records = []*models.AssetRecord{}
		}
		views = append(views, &AllocationView{Allocation: allocation, Records: records})
	}

	return views, nil
}

// UpdateAllocation updates an existing allocation
func (s *AllocationService) UpdateAllocation(ctx context.Context, input *UpdateAllocationInput) (*models.Allocation, error) {
	if input.AllocationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "allocationId is required",
		}
	}

	allocation, err := s.allocationRepo.GetByID(ctx, input.AllocationID)
	if err != nil {
		return nil, allocationNotFound(input.AllocationID)
	}

	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, &types.ServiceError{
				Code:    "INVALID_INPUT",
				Message: fmt.Sprintf("unknown asset category: %s", *input.Category),
			}
		}
		allocation.Category = *input.Category
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, &types.ServiceError{
				Code:    "INVALID_INPUT",
				Message: "allocation name cannot be empty",
			}
		}
		allocation.Name = *input.Name
	}
	if input.NominalValue != nil {
		if input.NominalValue.IsNegative() {
			return nil, &types.ServiceError{
				Code:    "INVALID_INPUT",
				Message: "nominalValue must not be negative",
			}
		}
		allocation.NominalValue = input.NominalValue
	}

	if err := s.allocationRepo.Update(ctx, allocation); err != nil {
		return nil, fmt.Errorf("failed to update allocation: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, allocation.SimulationID)

	return allocation, nil
}

// DeleteAllocation deletes an allocation and its valuation records
func (s *AllocationService) DeleteAllocation(ctx context.Context, allocationID string) error {
	if allocationID == "" {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "allocationId is required",
		}
	}

	allocation, err := s.allocationRepo.GetByID(ctx, allocationID)
	if err != nil {
		return allocationNotFound(allocationID)
	}

	if err := s.allocationRepo.Delete(ctx, allocationID); err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, allocation.SimulationID)

	return nil
}

// AddRecord appends a dated valuation to an allocation's history
func (s *AllocationService) AddRecord(ctx context.Context, input *AddRecordInput) (*models.AssetRecord, error) {
	if input.AllocationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "allocationId is required",
		}
	}
	if input.RecordDate.IsZero() {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "recordDate is required",
		}
	}
	if input.Value.IsNegative() {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "record value must not be negative",
		}
	}

	allocation, err := s.allocationRepo.GetByID(ctx, input.AllocationID)
	if err != nil {
		return nil, allocationNotFound(input.AllocationID)
	}

	record := &models.AssetRecord{
		AllocationID: input.AllocationID,
		RecordDate:   input.RecordDate,
		Value:        input.Value,
	}

	if err := s.allocationRepo.AddRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add valuation record: %w", err)
	}

	invalidateSimulationCaches(ctx, s.cache, allocation.SimulationID)

	return record, nil
}

// ListRecords returns an allocation's valuation history ordered by record
// date, preserving insertion order within a date
func (s *AllocationService) ListRecords(ctx context.Context, allocationID string) ([]*models.AssetRecord, error) {
	if allocationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "allocationId is required",
		}
	}

	if _, err := s.allocationRepo.GetByID(ctx, allocationID); err != nil {
		return nil, allocationNotFound(allocationID)
	}

	records, err := s.allocationRepo.ListRecords(ctx, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuation records: %w", err)
	}

	return records, nil
}

func (s *AllocationService) requireSimulation(ctx context.Context, simulationID string) error {
	exists, err := s.simulationRepo.Exists(ctx, simulationID)
	if err != nil {
		return fmt.Errorf("failed to check simulation existence: %w", err)
	}
	if !exists {
		return simulationNotFound(simulationID)
	}
	return nil
}

func allocationNotFound(allocationID string) *types.ServiceError {
	return &types.ServiceError{
		Code:    "ALLOCATION_NOT_FOUND",
		Message: fmt.Sprintf("allocation not found: %s", allocationID),
		Details: map[string]interface{}{
			"allocationId": allocationID,
		},
	}
}
