package services_test

import (
	"net/http"
	"testing"
)

func TestStatsOverview(t *testing.T) {
	env := setupTestEnv(t)
	_, aliceToken := env.createMember("alice", false)
	_, bobToken := env.createMember("bob", false)
	_, carolToken := env.createMember("carol", false)
	_, adminToken := env.createMember("root", true)
	catan := env.createGame("Catan")
	gloomhaven := env.createGame("Gloomhaven")

	resp, booking := env.request(http.MethodPost, "/bookings", aliceToken, createBookingPayload(catan, 1, 4))
	env.wantStatus(resp, http.StatusCreated)
	resp, _ = env.request(http.MethodPost, "/bookings/"+booking["id"].(string)+"/join", bobToken, nil)
	env.wantStatus(resp, http.StatusOK)
	resp, _ = env.request(http.MethodPost, "/bookings", carolToken, createBookingPayload(gloomhaven, 2, 2))
	env.wantStatus(resp, http.StatusCreated)

	resp, body := env.request(http.MethodGet, "/admin/stats", adminToken, nil)
	env.wantStatus(resp, http.StatusOK)

	if body["total_bookings"].(float64) != 2 {
		t.Errorf("total_bookings = %v, want 2", body["total_bookings"])
	}
	if body["total_members"].(float64) != 4 {
		t.Errorf("total_members = %v, want 4", body["total_members"])
	}
	if body["active_players"].(float64) != 3 {
		t.Errorf("active_players = %v, want 3 (alice, bob, carol)", body["active_players"])
	}
	if len(body["top_games"].([]interface{})) != 2 {
		t.Errorf("top_games = %v, want 2 entries", body["top_games"])
	}

	trends := body["weekly_trends"].([]interface{})
	if len(trends) != 1 {
		t.Fatalf("weekly_trends = %v, want a single session week", trends)
	}
	week := trends[0].(map[string]interface{})
	if week["bookings"].(float64) != 2 || week["players"].(float64) != 3 {
		t.Errorf("week = %v, want 2 bookings and 3 players", week)
	}

	if len(body["memberships"].([]interface{})) == 0 {
		t.Error("memberships breakdown should not be empty")
	}
}
