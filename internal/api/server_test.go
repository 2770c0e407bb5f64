package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/service"
	"github.com/wealth-planner/internal/types"
)

// Mock services for testing

type mockClientService struct {
	createFunc func(ctx context.Context, input *service.CreateClientInput) (*models.Client, error)
	getFunc    func(ctx context.Context, clientID string) (*models.Client, error)
	listFunc   func(ctx context.Context, limit, offset int) ([]*models.Client, error)
	updateFunc func(ctx context.Context, input *service.UpdateClientInput) (*models.Client, error)
	deleteFunc func(ctx context.Context, clientID string) error
}

func (m *mockClientService) CreateClient(ctx context.Context, input *service.CreateClientInput) (*models.Client, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, input)
	}
	return &models.Client{
		ID:        "client-123",
		Name:      input.Name,
		Email:     input.Email,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func (m *mockClientService) GetClient(ctx context.Context, clientID string) (*models.Client, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, clientID)
	}
	return &models.Client{
		ID:     clientID,
		Name:   "Maria Souza",
		Email:  "maria@example.com",
		Active: true,
	}, nil
}

func (m *mockClientService) ListClients(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []*models.Client{
		{ID: "client-123", Name: "Maria Souza", Email: "maria@example.com", Active: true},
	}, nil
}

func (m *mockClientService) UpdateClient(ctx context.Context, input *service.UpdateClientInput) (*models.Client, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, input)
	}
	client := &models.Client{ID: input.ClientID, Name: "Maria Souza", Email: "maria@example.com", Active: true}
	if input.Name != nil {
		client.Name = *input.Name
	}
	return client, nil
}

func (m *mockClientService) DeleteClient(ctx context.Context, clientID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, clientID)
	}
	return nil
}

type mockSimulationService struct {
	createFunc       func(ctx context.Context, input *service.CreateSimulationInput) (*models.Simulation, error)
	getFunc          func(ctx context.Context, simulationID string) (*models.Simulation, error)
	listByClientFunc func(ctx context.Context, clientID string) ([]*models.Simulation, error)
	updateFunc       func(ctx context.Context, input *service.UpdateSimulationInput) (*models.Simulation, error)
	deleteFunc       func(ctx context.Context, simulationID string) error
	duplicateFunc    func(ctx context.Context, simulationID, newName string) (*models.Simulation, error)
}

func (m *mockSimulationService) CreateSimulation(ctx context.Context, input *service.CreateSimulationInput) (*models.Simulation, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, input)
	}
	return &models.Simulation{
		ID:        "sim-123",
		ClientID:  input.ClientID,
		Name:      input.Name,
		StartDate: input.StartDate,
		RealRate:  input.RealRate,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func (m *mockSimulationService) GetSimulation(ctx context.Context, simulationID string) (*models.Simulation, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, simulationID)
	}
	return &models.Simulation{
		ID:        simulationID,
		ClientID:  "client-123",
		Name:      "Base plan",
		StartDate: types.NewDate(2025, time.June, 1),
		RealRate:  decimal.NewFromFloat(0.04),
	}, nil
}

func (m *mockSimulationService) ListByClient(ctx context.Context, clientID string) ([]*models.Simulation, error) {
	if m.listByClientFunc != nil {
		return m.listByClientFunc(ctx, clientID)
	}
	return []*models.Simulation{
		{ID: "sim-123", ClientID: clientID, Name: "Base plan"},
	}, nil
}

func (m *mockSimulationService) UpdateSimulation(ctx context.Context, input *service.UpdateSimulationInput) (*models.Simulation, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, input)
	}
	sim := &models.Simulation{ID: input.SimulationID, ClientID: "client-123", Name: "Base plan"}
	if input.Name != nil {
		sim.Name = *input.Name
	}
	return sim, nil
}

func (m *mockSimulationService) DeleteSimulation(ctx context.Context, simulationID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, simulationID)
	}
	return nil
}

func (m *mockSimulationService) DuplicateSimulation(ctx context.Context, simulationID, newName string) (*models.Simulation, error) {
	if m.duplicateFunc != nil {
		return m.duplicateFunc(ctx, simulationID, newName)
	}
	return &models.Simulation{
		ID:       "sim-copy-456",
		ClientID: "client-123",
		Name:     newName,
	}, nil
}

type mockAllocationService struct {
	createFunc      func(ctx context.Context, input *service.CreateAllocationInput) (*models.Allocation, error)
	listFunc        func(ctx context.Context, simulationID string) ([]*service.AllocationView, error)
	updateFunc      func(ctx context.Context, input *service.UpdateAllocationInput) (*models.Allocation, error)
	deleteFunc      func(ctx context.Context, allocationID string) error
	addRecordFunc   func(ctx context.Context, input *service.AddRecordInput) (*models.AssetRecord, error)
	listRecordsFunc func(ctx context.Context, allocationID string) ([]*models.AssetRecord, error)
}

func (m *mockAllocationService) CreateAllocation(ctx context.Context, input *service.CreateAllocationInput) (*models.Allocation, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, input)
	}
	return &models.Allocation{
		ID:           "alloc-123",
		SimulationID: input.SimulationID,
		Category:     input.Category,
		Name:         input.Name,
		NominalValue: input.NominalValue,
	}, nil
}

func (m *mockAllocationService) ListAllocations(ctx context.Context, simulationID string) ([]*service.AllocationView, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, simulationID)
	}
	return []*service.AllocationView{
		{
			Allocation: &models.Allocation{
				ID:           "alloc-123",
				SimulationID: simulationID,
				Category:     types.CategoryFinancial,
				Name:         "Brokerage account",
			},
			Records: []*models.AssetRecord{
				{ID: "rec-1", AllocationID: "alloc-123", RecordDate: types.NewDate(2024, time.January, 1), Value: decimal.NewFromInt(100000)},
			},
		},
	}, nil
}

func (m *mockAllocationService) UpdateAllocation(ctx context.Context, input *service.UpdateAllocationInput) (*models.Allocation, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, input)
	}
	return &models.Allocation{ID: input.AllocationID, SimulationID: "sim-123", Category: types.CategoryFinancial, Name: "Brokerage account"}, nil
}

func (m *mockAllocationService) DeleteAllocation(ctx context.Context, allocationID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, allocationID)
	}
	return nil
}

func (m *mockAllocationService) AddRecord(ctx context.Context, input *service.AddRecordInput) (*models.AssetRecord, error) {
	if m.addRecordFunc != nil {
		return m.addRecordFunc(ctx, input)
	}
	return &models.AssetRecord{
		ID:           "rec-123",
		AllocationID: input.AllocationID,
		RecordDate:   input.RecordDate,
		Value:        input.Value,
		CreatedAt:    time.Now(),
	}, nil
}

func (m *mockAllocationService) ListRecords(ctx context.Context, allocationID string) ([]*models.AssetRecord, error) {
	if m.listRecordsFunc != nil {
		return m.listRecordsFunc(ctx, allocationID)
	}
	return []*models.AssetRecord{
		{ID: "rec-1", AllocationID: allocationID, RecordDate: types.NewDate(2024, time.January, 1), Value: decimal.NewFromInt(100000)},
	}, nil
}

type mockMovementService struct {
	createFunc func(ctx context.Context, input *service.CreateMovementInput) (*models.Movement, error)
	listFunc   func(ctx context.Context, simulationID string) ([]*models.Movement, error)
	updateFunc func(ctx context.Context, input *service.UpdateMovementInput) (*models.Movement, error)
	deleteFunc func(ctx context.Context, movementID string) error
}

func (m *mockMovementService) CreateMovement(ctx context.Context, input *service.CreateMovementInput) (*models.Movement, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, input)
	}
	return &models.Movement{
		ID:           "mov-123",
		SimulationID: input.SimulationID,
		Direction:    input.Direction,
		Description:  input.Description,
		Amount:       input.Amount,
		Recurrence:   input.Recurrence,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	}, nil
}

func (m *mockMovementService) ListMovements(ctx context.Context, simulationID string) ([]*models.Movement, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, simulationID)
	}
	return []*models.Movement{
		{ID: "mov-123", SimulationID: simulationID, Direction: types.DirectionIncome, Description: "Salary", Amount: decimal.NewFromInt(12000), Recurrence: types.RecurrenceMonthly, StartDate: types.NewDate(2025, time.January, 1)},
	}, nil
}

func (m *mockMovementService) UpdateMovement(ctx context.Context, input *service.UpdateMovementInput) (*models.Movement, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, input)
	}
	return &models.Movement{ID: input.MovementID, SimulationID: "sim-123", Direction: types.DirectionIncome, Description: "Salary"}, nil
}

func (m *mockMovementService) DeleteMovement(ctx context.Context, movementID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, movementID)
	}
	return nil
}

type mockInsuranceService struct {
	createFunc func(ctx context.Context, input *service.CreateInsuranceInput) (*models.InsurancePolicy, error)
	listFunc   func(ctx context.Context, simulationID string) ([]*models.InsurancePolicy, error)
	updateFunc func(ctx context.Context, input *service.UpdateInsuranceInput) (*models.InsurancePolicy, error)
	deleteFunc func(ctx context.Context, insuranceID string) error
}

func (m *mockInsuranceService) CreateInsurance(ctx context.Context, input *service.CreateInsuranceInput) (*models.InsurancePolicy, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, input)
	}
	return &models.InsurancePolicy{
		ID:             "ins-123",
		SimulationID:   input.SimulationID,
		Name:           input.Name,
		InsuredValue:   input.InsuredValue,
		MonthlyPremium: input.MonthlyPremium,
		StartDate:      input.StartDate,
		DurationMonths: input.DurationMonths,
	}, nil
}

func (m *mockInsuranceService) ListInsurances(ctx context.Context, simulationID string) ([]*models.InsurancePolicy, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, simulationID)
	}
	return []*models.InsurancePolicy{
		{ID: "ins-123", SimulationID: simulationID, Name: "Term life", InsuredValue: decimal.NewFromInt(800000)},
	}, nil
}

func (m *mockInsuranceService) UpdateInsurance(ctx context.Context, input *service.UpdateInsuranceInput) (*models.InsurancePolicy, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, input)
	}
	return &models.InsurancePolicy{ID: input.InsuranceID, SimulationID: "sim-123", Name: "Term life"}, nil
}

func (m *mockInsuranceService) DeleteInsurance(ctx context.Context, insuranceID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, insuranceID)
	}
	return nil
}

type mockProjectionService struct {
	runFunc     func(ctx context.Context, params *service.ProjectionParameters) (*service.ProjectionResult, error)
	historyFunc func(ctx context.Context, simulationID string, limit int) ([]*models.ProjectionRun, error)
}

func (m *mockProjectionService) RunProjection(ctx context.Context, params *service.ProjectionParameters) (*service.ProjectionResult, error) {
	if m.runFunc != nil {
		return m.runFunc(ctx, params)
	}
	return &service.ProjectionResult{
		SimulationID: params.SimulationID,
		Years:        []int{2026, 2027},
		Financial:    []float64{104000, 108160},
		RealEstate:   []float64{360400, 371212},
		Insurance:    []float64{800000, 800000},
		Total:        []float64{1264400, 1279372},
	}, nil
}

func (m *mockProjectionService) History(ctx context.Context, simulationID string, limit int) ([]*models.ProjectionRun, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, simulationID, limit)
	}
	return []*models.ProjectionRun{
		{SimulationID: simulationID, LifeStatus: types.StatusAlive, AnnualRealRate: 0.04, HorizonYears: 30, IncludeInsurance: true, FinalTotal: 1279372, DurationMs: 3, CreatedAt: time.Now()},
	}, nil
}

type mockTimelineService struct {
	expandFunc func(ctx context.Context, simulationID string, fromYear, toYear int) (*service.TimelineResult, error)
}

func (m *mockTimelineService) ExpandTimeline(ctx context.Context, simulationID string, fromYear, toYear int) (*service.TimelineResult, error) {
	if m.expandFunc != nil {
		return m.expandFunc(ctx, simulationID, fromYear, toYear)
	}
	return &service.TimelineResult{
		SimulationID: simulationID,
		FromYear:     fromYear,
		ToYear:       toYear,
		Entries: []service.TimelineEntry{
			{Date: types.NewDate(fromYear, time.January, 1), Direction: types.DirectionIncome, Amount: decimal.NewFromInt(12000), Description: "Salary", SourceMovementID: "mov-123"},
		},
		Count: 1,
	}, nil
}

// Helper to create a test server backed by mock services. Tests that need
// specific service behavior type-assert the server's fields and set the
// relevant func before issuing requests.
func createTestServer() *Server {
	return createTestServerWithLimit(1000, 2000)
}

func createTestServerWithLimit(rps float64, burst int) *Server {
	config := &ServerConfig{
		Host:           "localhost",
		Port:           "8080",
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}

	server := &Server{
		router:            mux.NewRouter(),
		clientService:     &mockClientService{},
		simulationService: &mockSimulationService{},
		allocationService: &mockAllocationService{},
		movementService:   &mockMovementService{},
		insuranceService:  &mockInsuranceService{},
		projectionService: &mockProjectionService{},
		timelineService:   &mockTimelineService{},
		config:            config,
	}
	server.setupRouter()
	return server
}

// TestHealthEndpoint tests the health check endpoint
func TestHealthEndpoint(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", response["status"])
	}
}

// TestCreateClient_Success tests successful client creation
func TestCreateClient_Success(t *testing.T) {
	server := createTestServer()

	reqBody := map[string]interface{}{
		"name":  "Maria Souza",
		"email": "maria@example.com",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/clients", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}

	var response models.Client
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Name != "Maria Souza" {
		t.Errorf("Expected name 'Maria Souza', got '%s'", response.Name)
	}
	if !response.Active {
		t.Error("Expected new client to be active")
	}
}

// TestGetClient_Success tests successful client retrieval
func TestGetClient_Success(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/api/clients/client-123", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response models.Client
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.ID != "client-123" {
		t.Errorf("Expected client ID 'client-123', got '%s'", response.ID)
	}
}

// TestListClients_Success tests client listing with pagination parameters
func TestListClients_Success(t *testing.T) {
	server := createTestServer()

	var gotLimit, gotOffset int
	server.clientService.(*mockClientService).listFunc = func(ctx context.Context, limit, offset int) ([]*models.Client, error) {
		gotLimit, gotOffset = limit, offset
		return []*models.Client{{ID: "client-123", Name: "Maria Souza", Active: true}}, nil
	}

	req := httptest.NewRequest("GET", "/api/clients?limit=25&offset=50", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotLimit != 25 || gotOffset != 50 {
		t.Errorf("Expected limit=25 offset=50, got limit=%d offset=%d", gotLimit, gotOffset)
	}
}

// TestDeleteClient_Success tests client deletion
func TestDeleteClient_Success(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("DELETE", "/api/clients/client-123", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
}

// TestCreateSimulation_Success tests successful simulation creation
func TestCreateSimulation_Success(t *testing.T) {
	server := createTestServer()

	reqBody := map[string]interface{}{
		"clientId":  "client-123",
		"name":      "Base plan",
		"startDate": "2025-06-01",
		"realRate":  0.04,
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/simulations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}

	var response models.Simulation
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Name != "Base plan" {
		t.Errorf("Expected name 'Base plan', got '%s'", response.Name)
	}
	if response.StartDate.String() != "2025-06-01" {
		t.Errorf("Expected start date 2025-06-01, got %s", response.StartDate)
	}
}

// TestDuplicateSimulation_Success tests simulation duplication
func TestDuplicateSimulation_Success(t *testing.T) {
	server := createTestServer()

	reqBody := map[string]interface{}{"name": "Base plan (copy)"}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/simulations/sim-123/duplicate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}

	var response models.Simulation
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.ID == "sim-123" {
		t.Error("Expected duplicate to have a new ID")
	}
	if response.Name != "Base plan (copy)" {
		t.Errorf("Expected name 'Base plan (copy)', got '%s'", response.Name)
	}
}

// TestListAllocations_IncludesRecords tests that allocation listings carry
// their valuation records
func TestListAllocations_IncludesRecords(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/api/simulations/sim-123/allocations", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response []struct {
		ID      string `json:"id"`
		Records []struct {
			RecordDate string `json:"recordDate"`
		} `json:"records"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response) != 1 {
		t.Fatalf("Expected 1 allocation, got %d", len(response))
	}
	if len(response[0].Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(response[0].Records))
	}
	if response[0].Records[0].RecordDate != "2024-01-01" {
		t.Errorf("Expected record date 2024-01-01, got %s", response[0].Records[0].RecordDate)
	}
}

// TestAddRecord_Success tests appending a valuation record
func TestAddRecord_Success(t *testing.T) {
	server := createTestServer()

	reqBody := map[string]interface{}{
		"recordDate": "2025-05-01",
		"value":      105000,
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/allocations/alloc-123/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}

	var response models.AssetRecord
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.AllocationID != "alloc-123" {
		t.Errorf("Expected allocation ID 'alloc-123', got '%s'", response.AllocationID)
	}
	if response.RecordDate.String() != "2025-05-01" {
		t.Errorf("Expected record date 2025-05-01, got %s", response.RecordDate)
	}
}

// TestCreateMovement_Success tests movement creation with an open end date
func TestCreateMovement_Success(t *testing.T) {
	server := createTestServer()

	reqBody := map[string]interface{}{
		"direction":   "INCOME",
		"description": "Salary",
		"amount":      12000,
		"recurrence":  "MONTHLY",
		"startDate":   "2025-01-01",
		"endDate":     "2030-12-31",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/simulations/sim-123/movements", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}

	var response models.Movement
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Direction != types.DirectionIncome {
		t.Errorf("Expected direction INCOME, got %s", response.Direction)
	}
	if response.EndDate == nil || response.EndDate.String() != "2030-12-31" {
		t.Errorf("Expected end date 2030-12-31, got %v", response.EndDate)
	}
}

// TestCreateInsurance_Success tests insurance policy creation
func TestCreateInsurance_Success(t *testing.T) {
	server := createTestServer()

	reqBody := map[string]interface{}{
		"name":           "Term life",
		"insuredValue":   800000,
		"monthlyPremium": 120,
		"startDate":      "2025-01-01",
		"durationMonths": 240,
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/simulations/sim-123/insurances", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}

	var response models.InsurancePolicy
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.DurationMonths != 240 {
		t.Errorf("Expected duration 240 months, got %d", response.DurationMonths)
	}
}

// TestRunProjection_Success tests a projection run
func TestRunProjection_Success(t *testing.T) {
	server := createTestServer()

	reqBody := map[string]interface{}{
		"lifeStatus":     "VIVO",
		"annualRealRate": 0.04,
		"horizonYears":   2,
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/simulations/sim-123/projection", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response service.ProjectionResult
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.SimulationID != "sim-123" {
		t.Errorf("Expected simulation ID 'sim-123', got '%s'", response.SimulationID)
	}
	if len(response.Years) != 2 {
		t.Errorf("Expected 2 projected years, got %d", len(response.Years))
	}
}

// TestRunProjection_InsuranceDefaultsToIncluded tests that an omitted
// includeInsurance flag means the run includes insurance
func TestRunProjection_InsuranceDefaultsToIncluded(t *testing.T) {
	server := createTestServer()

	var gotParams *service.ProjectionParameters
	server.projectionService.(*mockProjectionService).runFunc = func(ctx context.Context, params *service.ProjectionParameters) (*service.ProjectionResult, error) {
		gotParams = params
		return &service.ProjectionResult{SimulationID: params.SimulationID}, nil
	}

	reqBody := map[string]interface{}{
		"lifeStatus":     "VIVO",
		"annualRealRate": 0.04,
		"horizonYears":   10,
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/simulations/sim-123/projection", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotParams == nil {
		t.Fatal("Expected projection service to be called")
	}
	if !gotParams.IncludeInsurance {
		t.Error("Expected includeInsurance to default to true")
	}

	// An explicit false must be passed through
	reqBody["includeInsurance"] = false
	body, _ = json.Marshal(reqBody)

	req = httptest.NewRequest("POST", "/api/simulations/sim-123/projection", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotParams.IncludeInsurance {
		t.Error("Expected includeInsurance=false to be passed through")
	}
}

// TestProjectionHistory_Success tests projection run history retrieval
func TestProjectionHistory_Success(t *testing.T) {
	server := createTestServer()

	var gotLimit int
	server.projectionService.(*mockProjectionService).historyFunc = func(ctx context.Context, simulationID string, limit int) ([]*models.ProjectionRun, error) {
		gotLimit = limit
		return []*models.ProjectionRun{
			{SimulationID: simulationID, LifeStatus: types.StatusAlive, HorizonYears: 30, FinalTotal: 1279372},
		}, nil
	}

	req := httptest.NewRequest("GET", "/api/simulations/sim-123/projection/runs?limit=5", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotLimit != 5 {
		t.Errorf("Expected limit 5, got %d", gotLimit)
	}

	var response []*models.ProjectionRun
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(response))
	}
	if response[0].HorizonYears != 30 {
		t.Errorf("Expected horizon 30, got %d", response[0].HorizonYears)
	}
}

// TestExpandTimeline_Success tests timeline expansion
func TestExpandTimeline_Success(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/api/simulations/sim-123/timeline?from=2025&to=2026", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response service.TimelineResult
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.FromYear != 2025 || response.ToYear != 2026 {
		t.Errorf("Expected window 2025-2026, got %d-%d", response.FromYear, response.ToYear)
	}
	if response.Count != 1 {
		t.Errorf("Expected 1 entry, got %d", response.Count)
	}
}

// TestCORSHeaders tests that CORS headers are properly set
func TestCORSHeaders(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Expected CORS headers to be set")
	}
}
