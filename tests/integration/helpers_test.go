//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
)

type userInfo struct {
	ID           string
	AccessToken  string
	RefreshToken string
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func makeAuthenticatedRequest(t *testing.T, method, url, token string, payload interface{}) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func createRegisteredUser(t *testing.T, baseURL, email, password string) userInfo {
	t.Helper()

	payload := map[string]string{
		"name":     "Integration Student",
		"email":    email,
		"password": password,
		"college":  "Integration College",
	}

	resp := makeAuthenticatedRequest(t, "POST", fmt.Sprintf("%s/v1/auth/register", baseURL), "", payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("unexpected register response status: %d, error: %v", resp.StatusCode, errResp)
	}

	return loginUser(t, baseURL, email, password)
}

func loginUser(t *testing.T, baseURL, email, password string) userInfo {
	t.Helper()

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	resp := makeAuthenticatedRequest(t, "POST", fmt.Sprintf("%s/v1/auth/login", baseURL), "", payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("unexpected login response status: %d, error: %v", resp.StatusCode, errResp)
	}

	var out struct {
		UserID       string `json:"user_id"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login response failed: %v", err)
	}

	if out.AccessToken == "" {
		t.Fatalf("empty access token in login response")
	}

	return userInfo{
		ID:           out.UserID,
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	}
}

// loginAdmin signs in as the seeded administrator account.
func loginAdmin(t *testing.T, baseURL string) userInfo {
	t.Helper()
	email := envOrDefault("SEED_ADMIN_EMAIL", "admin@college.edu")
	password := envOrDefault("SEED_ADMIN_PASSWORD", "admin123")
	return loginUser(t, baseURL, email, password)
}

func createCategory(t *testing.T, baseURL, adminToken, name, kind string) string {
	t.Helper()

	payload := map[string]string{
		"name":        name,
		"kind":        kind,
		"description": "Created by integration run",
	}

	resp := makeAuthenticatedRequest(t, "POST", fmt.Sprintf("%s/v1/admin/categories", baseURL), adminToken, payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("unexpected create category status: %d, error: %v", resp.StatusCode, errResp)
	}

	var out struct {
		ID string `json:"ID"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode create category response failed: %v", err)
	}
	if out.ID == "" {
		t.Fatalf("empty category id in create response")
	}
	return out.ID
}

func createQuestion(t *testing.T, baseURL, adminToken, categoryID, text, correct string) {
	t.Helper()

	payload := map[string]interface{}{
		"category_id":    categoryID,
		"question_text":  text,
		"option_a":       "Answer A",
		"option_b":       "Answer B",
		"option_c":       "Answer C",
		"option_d":       "Answer D",
		"correct_answer": correct,
		"explanation":    "Integration fixture",
		"difficulty":     "easy",
	}

	resp := makeAuthenticatedRequest(t, "POST", fmt.Sprintf("%s/v1/admin/questions", baseURL), adminToken, payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("unexpected create question status: %d, error: %v", resp.StatusCode, errResp)
	}
}
