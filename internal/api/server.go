// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wealth-planner/internal/logging"
	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/service"
)

// Service interfaces for dependency injection and testing

// ClientServiceInterface defines the interface for client operations
type ClientServiceInterface interface {
	CreateClient(ctx context.Context, input *service.CreateClientInput) (*models.Client, error)
	GetClient(ctx context.Context, clientID string) (*models.Client, error)
	ListClients(ctx context.Context, limit, offset int) ([]*models.Client, error)
	UpdateClient(ctx context.Context, input *service.UpdateClientInput) (*models.Client, error)
	DeleteClient(ctx context.Context, clientID string) error
}

// SimulationServiceInterface defines the interface for simulation operations
type SimulationServiceInterface interface {
	CreateSimulation(ctx context.Context, input *service.CreateSimulationInput) (*models.Simulation, error)
	GetSimulation(ctx context.Context, simulationID string) (*models.Simulation, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Simulation, error)
	UpdateSimulation(ctx context.Context, input *service.UpdateSimulationInput) (*models.Simulation, error)
	DeleteSimulation(ctx context.Context, simulationID string) error
	DuplicateSimulation(ctx context.Context, simulationID, newName string) (*models.Simulation, error)
}

// AllocationServiceInterface defines the interface for allocation operations
type AllocationServiceInterface interface {
	CreateAllocation(ctx context.Context, input *service.CreateAllocationInput) (*models.Allocation, error)
	ListAllocations(ctx context.Context, simulationID string) ([]*service.AllocationView, error)
	UpdateAllocation(ctx context.Context, input *service.UpdateAllocationInput) (*models.Allocation, error)
	DeleteAllocation(ctx context.Context, allocationID string) error
	AddRecord(ctx context.Context, input *service.AddRecordInput) (*models.AssetRecord, error)
	ListRecords(ctx context.Context, allocationID string) ([]*models.AssetRecord, error)
}

// MovementServiceInterface defines the interface for movement operations
type MovementServiceInterface interface {
	CreateMovement(ctx context.Context, input *service.CreateMovementInput) (*models.Movement, error)
	ListMovements(ctx context.Context, simulationID string) ([]*models.Movement, error)
	UpdateMovement(ctx context.Context, input *service.UpdateMovementInput) (*models.Movement, error)
	DeleteMovement(ctx context.Context, movementID string) error
}

// InsuranceServiceInterface defines the interface for insurance operations
type InsuranceServiceInterface interface {
	CreateInsurance(ctx context.Context, input *service.CreateInsuranceInput) (*models.InsurancePolicy, error)
	ListInsurances(ctx context.Context, simulationID string) ([]*models.InsurancePolicy, error)
	UpdateInsurance(ctx context.Context, input *service.UpdateInsuranceInput) (*models.InsurancePolicy, error)
	DeleteInsurance(ctx context.Context, insuranceID string) error
}

// ProjectionServiceInterface defines the interface for projection operations
type ProjectionServiceInterface interface {
	RunProjection(ctx context.Context, params *service.ProjectionParameters) (*service.ProjectionResult, error)
	History(ctx context.Context, simulationID string, limit int) ([]*models.ProjectionRun, error)
}

// TimelineServiceInterface defines the interface for timeline expansion
type TimelineServiceInterface interface {
	ExpandTimeline(ctx context.Context, simulationID string, fromYear, toYear int) (*service.TimelineResult, error)
}

// Server represents the HTTP API server.
type Server struct {
	router            *mux.Router
	httpServer        *http.Server
	clientService     ClientServiceInterface
	simulationService SimulationServiceInterface
	allocationService AllocationServiceInterface
	movementService   MovementServiceInterface
	insuranceService  InsuranceServiceInterface
	projectionService ProjectionServiceInterface
	timelineService   TimelineServiceInterface
	config            *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	clientService *service.ClientService,
	simulationService *service.SimulationService,
	allocationService *service.AllocationService,
	movementService *service.MovementService,
	insuranceService *service.InsuranceService,
	projectionService *service.ProjectionService,
	timelineService *service.TimelineService,
) *Server {
	s := &Server{
		router:            mux.NewRouter(),
		clientService:     clientService,
		simulationService: simulationService,
		allocationService: allocationService,
		movementService:   movementService,
		insuranceService:  insuranceService,
		projectionService: projectionService,
		timelineService:   timelineService,
		config:            config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst)

	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Client endpoints
	api.HandleFunc("/clients", s.handleCreateClient).Methods("POST")
	api.HandleFunc("/clients", s.handleListClients).Methods("GET")
	api.HandleFunc("/clients/{id}", s.handleGetClient).Methods("GET")
	api.HandleFunc("/clients/{id}", s.handleUpdateClient).Methods("PUT")
	api.HandleFunc("/clients/{id}", s.handleDeleteClient).Methods("DELETE")
	api.HandleFunc("/clients/{id}/simulations", s.handleListSimulations).Methods("GET")

	// Simulation endpoints
	api.HandleFunc("/simulations", s.handleCreateSimulation).Methods("POST")
	api.HandleFunc("/simulations/{id}", s.handleGetSimulation).Methods("GET")
	api.HandleFunc("/simulations/{id}", s.handleUpdateSimulation).Methods("PUT")
	api.HandleFunc("/simulations/{id}", s.handleDeleteSimulation).Methods("DELETE")
	api.HandleFunc("/simulations/{id}/duplicate", s.handleDuplicateSimulation).Methods("POST")

	// Allocation endpoints
	api.HandleFunc("/simulations/{id}/allocations", s.handleListAllocations).Methods("GET")
	api.HandleFunc("/simulations/{id}/allocations", s.handleCreateAllocation).Methods("POST")
	api.HandleFunc("/allocations/{id}", s.handleUpdateAllocation).Methods("PUT")
	api.HandleFunc("/allocations/{id}", s.handleDeleteAllocation).Methods("DELETE")
	api.HandleFunc("/allocations/{id}/records", s.handleAddRecord).Methods("POST")
	api.HandleFunc("/allocations/{id}/records", s.handleListRecords).Methods("GET")

	// Movement endpoints
	api.HandleFunc("/simulations/{id}/movements", s.handleListMovements).Methods("GET")
	api.HandleFunc("/simulations/{id}/movements", s.handleCreateMovement).Methods("POST")
	api.HandleFunc("/movements/{id}", s.handleUpdateMovement).Methods("PUT")
	api.HandleFunc("/movements/{id}", s.handleDeleteMovement).Methods("DELETE")

	// Insurance endpoints
	api.HandleFunc("/simulations/{id}/insurances", s.handleListInsurances).Methods("GET")
	api.HandleFunc("/simulations/{id}/insurances", s.handleCreateInsurance).Methods("POST")
	api.HandleFunc("/insurances/{id}", s.handleUpdateInsurance).Methods("PUT")
	api.HandleFunc("/insurances/{id}", s.handleDeleteInsurance).Methods("DELETE")

	// Projection and timeline endpoints
	api.HandleFunc("/simulations/{id}/projection", s.handleRunProjection).Methods("POST")
	api.HandleFunc("/simulations/{id}/projection/runs", s.handleProjectionHistory).Methods("GET")
	api.HandleFunc("/simulations/{id}/timeline", s.handleExpandTimeline).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "wealth-planner",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.Infof("Starting API server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
