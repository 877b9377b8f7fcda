//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestUnauthorizedAccess(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	// Protected endpoint without a token.
	resp := makeAuthenticatedRequest(t, "GET", fmt.Sprintf("%s/v1/users/me", baseURL), "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("expected 401, got %d, error: %v", resp.StatusCode, errResp)
	}

	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}

	if errResp["error"] != "authentication_required" {
		t.Fatalf("expected error code 'authentication_required', got %v", errResp["error"])
	}
}

func TestForbiddenAdminAccess(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	// A student token is not enough for the admin surface.
	student := createRegisteredUser(t, baseURL, fmt.Sprintf("forbidden-%d@example.com", time.Now().UnixNano()), "testpassword123")

	resp := makeAuthenticatedRequest(t, "GET", fmt.Sprintf("%s/v1/admin/users", baseURL), student.AccessToken, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("expected 403, got %d, error: %v", resp.StatusCode, errResp)
	}

	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}

	if errResp["error"] != "forbidden" {
		t.Fatalf("expected error code 'forbidden', got %v", errResp["error"])
	}
}

func TestValidationErrors(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	admin := loginAdmin(t, baseURL)

	testCases := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name: "missing category name",
			payload: map[string]interface{}{
				"kind": "aptitude",
			},
		},
		{
			name: "invalid category kind",
			payload: map[string]interface{}{
				"name": "Broken Category",
				"kind": "trivia",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := makeAuthenticatedRequest(t, "POST", fmt.Sprintf("%s/v1/admin/categories", baseURL), admin.AccessToken, tc.payload)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				var errResp map[string]interface{}
				json.NewDecoder(resp.Body).Decode(&errResp)
				t.Fatalf("expected 400, got %d, error: %v", resp.StatusCode, errResp)
			}

			var errResp map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response failed: %v", err)
			}

			if errResp["error"] == nil {
				t.Fatal("error field is missing")
			}
		})
	}
}

func TestResultNotFound(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	student := createRegisteredUser(t, baseURL, fmt.Sprintf("notfound-%d@example.com", time.Now().UnixNano()), "testpassword123")

	resp := makeAuthenticatedRequest(t, "GET", fmt.Sprintf("%s/v1/quiz/results/00000000-0000-0000-0000-000000000000", baseURL), student.AccessToken, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("expected 404, got %d, error: %v", resp.StatusCode, errResp)
	}

	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}

	if errResp["error"] != "not_found" {
		t.Fatalf("expected error code 'not_found', got %v", errResp["error"])
	}
}

func TestInvalidJSONPayload(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/v1/auth/register", baseURL), nil)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Body = http.NoBody

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("expected 400, got %d, error: %v", resp.StatusCode, errResp)
	}

	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}

	if errResp["error"] == nil {
		t.Fatal("error field is missing")
	}
}
