package service

import (
	"context"
	"fmt"

	"github.com/wealth-planner/internal/logging"
	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

// Repository interfaces for dependency injection

// ClientRepository interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, limit, offset int) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ClientService handles advisory client management
type ClientService struct {
	clientRepo     ClientRepository
	simulationRepo SimulationRepository
	cache          Cache
}

// NewClientService creates a new client service
func NewClientService(clientRepo ClientRepository, simulationRepo SimulationRepository, cache Cache) *ClientService {
	return &ClientService{
		clientRepo:     clientRepo,
		simulationRepo: simulationRepo,
		cache:          cache,
	}
}

// Input types

// CreateClientInput represents input for creating a client
type CreateClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateClientInput represents input for updating a client
type UpdateClientInput struct {
	ClientID string  `json:"clientId"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, input *CreateClientInput) (*models.Client, error) {
	if input.Name == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "client name is required",
		}
	}
	if input.Email == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "client email is required",
		}
	}

	client := &models.Client{
		Name:   input.Name,
		Email:  input.Email,
		Active: true,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, clientID string) (*models.Client, error) {
	if clientID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "clientId is required",
		}
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, clientNotFound(clientID)
	}

	return client, nil
}

// ListClients lists clients with pagination
func (s *ClientService) ListClients(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	clients, err := s.clientRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return clients, nil
}

// UpdateClient updates an existing client
func (s *ClientService) UpdateClient(ctx context.Context, input *UpdateClientInput) (*models.Client, error) {
	if input.ClientID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "clientId is required",
		}
	}

	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, clientNotFound(input.ClientID)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, &types.ServiceError{
				Code:    "INVALID_INPUT",
				Message: "client name cannot be empty",
			}
		}
		client.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, &types.ServiceError{
				Code:    "INVALID_INPUT",
				Message: "client email cannot be empty",
			}
		}
		client.Email = *input.Email
	}
	if input.Active != nil {
		client.Active = *input.Active
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

// DeleteClient deletes a client. Its simulations go with it, so their cached
// projections and timelines are dropped first.
func (s *ClientService) DeleteClient(ctx context.Context, clientID string) error {
	if clientID == "" {
		return &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "clientId is required",
		}
	}

	exists, err := s.clientRepo.Exists(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to check client existence: %w", err)
	}
	if !exists {
		return clientNotFound(clientID)
	}

	simulations, err := s.simulationRepo.ListByClient(ctx, clientID)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("clientId", clientID).
			Warn("could not enumerate simulations for cache invalidation")
	}

	if err := s.clientRepo.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	for _, simulation := range simulations {
		invalidateSimulationCaches(ctx, s.cache, simulation.ID)
	}

	return nil
}

func clientNotFound(clientID string) *types.ServiceError {
	return &types.ServiceError{
		Code:    "CLIENT_NOT_FOUND",
		Message: fmt.Sprintf("client not found: %s", clientID),
		Details: map[string]interface{}{
			"clientId": clientID,
		},
	}
}
