package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestConcurrentUserLoad tests handling of many concurrent advisors
func TestConcurrentUserLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping load test in short mode")
	}

	server := createTestServer()

	concurrentUsers := 200
	requestsPerUser := 5

	var wg sync.WaitGroup
	var successCount int64
	var errorCount int64
	var totalDuration int64 // in nanoseconds

	startTime := time.Now()

	for i := 0; i < concurrentUsers; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()

			for j := 0; j < requestsPerUser; j++ {
				req := httptest.NewRequest("GET", "/api/simulations/sim-123/timeline?from=2025&to=2026", nil)
				req.Header.Set("X-Client-ID", fmt.Sprintf("load-user-%d", userID))
				w := httptest.NewRecorder()

				reqStart := time.Now()
				server.router.ServeHTTP(w, req)
				reqDuration := time.Since(reqStart)

				atomic.AddInt64(&totalDuration, int64(reqDuration))

				if w.Code == http.StatusOK {
					atomic.AddInt64(&successCount, 1)
				} else {
					atomic.AddInt64(&errorCount, 1)
				}
			}
		}(i)
	}

	wg.Wait()
	totalTime := time.Since(startTime)

	totalRequests := int64(concurrentUsers * requestsPerUser)
	avgDuration := time.Duration(totalDuration / totalRequests)
	throughput := float64(totalRequests) / totalTime.Seconds()

	t.Logf("Load test results:")
	t.Logf("  Concurrent users: %d", concurrentUsers)
	t.Logf("  Total requests: %d", totalRequests)
	t.Logf("  Successful: %d", successCount)
	t.Logf("  Errors: %d", errorCount)
	t.Logf("  Total time: %v", totalTime)
	t.Logf("  Average response time: %v", avgDuration)
	t.Logf("  Throughput: %.2f req/s", throughput)

	successRate := float64(successCount) / float64(totalRequests) * 100
	if successRate < 99.0 {
		t.Errorf("Success rate %.2f%% is below 99%%", successRate)
	}

	if avgDuration > 500*time.Millisecond {
		t.Errorf("Average response time %v exceeds 500ms threshold", avgDuration)
	}
}

// TestRateLimitEnforcement tests that a client exceeding its budget gets 429
// responses carrying the rate limit error code
func TestRateLimitEnforcement(t *testing.T) {
	server := createTestServerWithLimit(1, 2)

	var denied int
	var lastDeniedBody []byte
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Client-ID", "greedy-client")
		w := httptest.NewRecorder()
		server.router.ServeHTTP(w, req)

		if w.Code == http.StatusTooManyRequests {
			denied++
			lastDeniedBody = w.Body.Bytes()
		}
	}

	if denied == 0 {
		t.Fatal("Expected at least one request to be rate limited")
	}

	var response ErrorResponse
	if err := json.NewDecoder(bytes.NewReader(lastDeniedBody)).Decode(&response); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if response.Error.Code != ErrCodeRateLimitExceeded {
		t.Errorf("Expected code RATE_LIMIT_EXCEEDED, got %s", response.Error.Code)
	}
}

// TestRateLimitIsolation tests that one client's burst does not starve
// another client
func TestRateLimitIsolation(t *testing.T) {
	server := createTestServerWithLimit(1, 2)

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Client-ID", "greedy-client")
		w := httptest.NewRecorder()
		server.router.ServeHTTP(w, req)
	}

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Client-ID", "quiet-client")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected quiet client to pass, got %d", w.Code)
	}
}

// BenchmarkHealthEndpoint benchmarks the health endpoint
func BenchmarkHealthEndpoint(b *testing.B) {
	server := createTestServerWithLimit(1e6, 1e6)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		server.router.ServeHTTP(w, req)
	}
}

// BenchmarkRunProjection benchmarks the projection endpoint
func BenchmarkRunProjection(b *testing.B) {
	server := createTestServerWithLimit(1e6, 1e6)
	body := []byte(`{"lifeStatus":"VIVO","annualRealRate":0.04,"horizonYears":30}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("POST", "/api/simulations/sim-123/projection", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		server.router.ServeHTTP(w, req)
	}
}

// BenchmarkExpandTimeline benchmarks the timeline endpoint
func BenchmarkExpandTimeline(b *testing.B) {
	server := createTestServerWithLimit(1e6, 1e6)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("GET", "/api/simulations/sim-123/timeline?from=2025&to=2030", nil)
		w := httptest.NewRecorder()
		server.router.ServeHTTP(w, req)
	}
}

// BenchmarkConcurrentRequests benchmarks concurrent request handling
func BenchmarkConcurrentRequests(b *testing.B) {
	server := createTestServerWithLimit(1e6, 1e6)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest("GET", "/health", nil)
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)
		}
	})
}
