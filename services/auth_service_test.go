package services_test

import (
	"net/http"
	"testing"

	"club-booking-system/models"
	"club-booking-system/utils"
)

func TestRegister(t *testing.T) {
	env := setupTestEnv(t)

	resp, body := env.request(http.MethodPost, "/auth/register", "", map[string]interface{}{
		"username":       "alice",
		"password":       "password123",
		"real_name":      "Alice Smith",
		"date_of_birth":  "1995-04-12",
		"discord_handle": "alice#1234",
	})
	env.wantStatus(resp, http.StatusCreated)

	if body["username"] != "alice" {
		t.Errorf("username = %v, want alice", body["username"])
	}
	if body["membership_type"] != models.MembershipWeekly {
		t.Errorf("new members start WEEKLY, got %v", body["membership_type"])
	}
	if _, leaked := body["password"]; leaked {
		t.Error("password hash must not appear in responses")
	}
	if body["is_admin"] != false {
		t.Error("new members must not be admins")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestEnv(t)
	env.createMember("alice", false)

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{"missing username", map[string]interface{}{"password": "password123"}, http.StatusBadRequest, utils.CodeValidation},
		{"short password", map[string]interface{}{"username": "bob", "password": "abc"}, http.StatusBadRequest, utils.CodeValidation},
		{"bad date of birth", map[string]interface{}{"username": "bob", "password": "password123", "date_of_birth": "12/04/1995"}, http.StatusBadRequest, utils.CodeValidation},
		{"duplicate username", map[string]interface{}{"username": "alice", "password": "password123"}, http.StatusConflict, utils.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.request(http.MethodPost, "/auth/register", "", tt.payload)
			env.wantStatus(resp, tt.wantStatus)
			env.wantCode(body, tt.wantCode)
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	env := setupTestEnv(t)
	env.createMember("alice", false)

	resp, body := env.request(http.MethodPost, "/auth/login", "", map[string]interface{}{
		"username": "alice", "password": "wrong-password",
	})
	env.wantStatus(resp, http.StatusUnauthorized)
	env.wantCode(body, utils.CodeUnauthorized)

	resp, body = env.request(http.MethodPost, "/auth/login", "", map[string]interface{}{
		"username": "alice", "password": "password123",
	})
	env.wantStatus(resp, http.StatusOK)
	token, ok := body["token"].(string)
	if !ok || token == "" {
		t.Fatal("login should issue a session token")
	}

	resp, body = env.request(http.MethodGet, "/auth/me", token, nil)
	env.wantStatus(resp, http.StatusOK)
	if body["username"] != "alice" {
		t.Errorf("me = %v, want alice", body["username"])
	}

	resp, _ = env.request(http.MethodPost, "/auth/logout", token, nil)
	env.wantStatus(resp, http.StatusOK)

	resp, body = env.request(http.MethodGet, "/auth/me", token, nil)
	env.wantStatus(resp, http.StatusUnauthorized)
	env.wantCode(body, utils.CodeUnauthorized)
}

func TestUnknownTokenRejected(t *testing.T) {
	env := setupTestEnv(t)

	resp, body := env.request(http.MethodGet, "/auth/me", "not-a-real-token", nil)
	env.wantStatus(resp, http.StatusUnauthorized)
	env.wantCode(body, utils.CodeUnauthorized)

	resp, body = env.request(http.MethodGet, "/bookings/dashboard-data", "", nil)
	env.wantStatus(resp, http.StatusUnauthorized)
	env.wantCode(body, utils.CodeUnauthorized)
}

func TestChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createMember("alice", false)

	resp, body := env.request(http.MethodPost, "/auth/change-password", token, map[string]interface{}{
		"current_password": "wrong", "new_password": "another-password",
	})
	env.wantStatus(resp, http.StatusUnauthorized)
	env.wantCode(body, utils.CodeUnauthorized)

	resp, _ = env.request(http.MethodPost, "/auth/change-password", token, map[string]interface{}{
		"current_password": "password123", "new_password": "another-password",
	})
	env.wantStatus(resp, http.StatusOK)

	resp, body = env.request(http.MethodPost, "/auth/login", "", map[string]interface{}{
		"username": "alice", "password": "another-password",
	})
	env.wantStatus(resp, http.StatusOK)
	if body["token"] == nil {
		t.Error("login with the new password should succeed")
	}
}
