package services_test

import (
	"net/http"
	"testing"
	"time"

	"club-booking-system/models"
)

func (e *testEnv) setMembership(member *models.Member, tier string, expiry *time.Time) {
	e.t.Helper()
	err := e.db.Model(member).Updates(map[string]interface{}{
		"membership_type":   tier,
		"membership_expiry": expiry,
	}).Error
	if err != nil {
		e.t.Fatalf("failed to set membership for %s: %v", member.Username, err)
	}
}

func TestMembershipStatusWeekly(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createMember("alice", false)

	resp, body := env.request(http.MethodGet, "/membership/status", token, nil)
	env.wantStatus(resp, http.StatusOK)

	if body["membership_type"] != models.MembershipWeekly {
		t.Errorf("membership_type = %v, want WEEKLY", body["membership_type"])
	}
	if body["is_active"] != true {
		t.Error("weekly tier should always be active")
	}
	if body["needs_payment"] != true {
		t.Error("weekly tier should owe for the session")
	}
	if body["show_renewal_notification"] != false {
		t.Error("no renewal notice without a lapsed paid tier")
	}
}

func TestMembershipStatusActivePaidTier(t *testing.T) {
	env := setupTestEnv(t)
	member, token := env.createMember("alice", false)
	expiry := env.now.AddDate(0, 0, 20)
	env.setMembership(member, models.MembershipMonthly, &expiry)

	resp, body := env.request(http.MethodGet, "/membership/status", token, nil)
	env.wantStatus(resp, http.StatusOK)

	if body["membership_type"] != models.MembershipMonthly {
		t.Errorf("membership_type = %v, want MONTHLY", body["membership_type"])
	}
	if body["is_active"] != true {
		t.Error("monthly tier with future expiry should be active")
	}
	if body["needs_payment"] != false {
		t.Error("active paid tier should not owe for the session")
	}
}

func TestDowngradeOnAccess(t *testing.T) {
	env := setupTestEnv(t)
	member, token := env.createMember("alice", false)
	expiry := env.now.AddDate(0, 0, -2)
	env.setMembership(member, models.MembershipMonthly, &expiry)

	resp, body := env.request(http.MethodGet, "/membership/status", token, nil)
	env.wantStatus(resp, http.StatusOK)

	if body["membership_type"] != models.MembershipWeekly {
		t.Errorf("membership_type = %v, want WEEKLY after lapse", body["membership_type"])
	}
	if body["previous_type"] != models.MembershipMonthly {
		t.Errorf("previous_type = %v, want MONTHLY", body["previous_type"])
	}
	if body["membership_expiry"] != nil {
		t.Errorf("membership_expiry = %v, want nil after downgrade", body["membership_expiry"])
	}
	if body["show_renewal_notification"] != true {
		t.Error("downgrade should open the renewal window")
	}

	var stored models.Member
	env.db.First(&stored, "id = ?", member.ID)
	if stored.MembershipType != models.MembershipWeekly || stored.MembershipExpiredAt == nil {
		t.Errorf("downgrade not persisted: tier=%s expiredAt=%v", stored.MembershipType, stored.MembershipExpiredAt)
	}
	firstExpiredAt := *stored.MembershipExpiredAt

	// A second read is a no-op: same expiredAt, same previous tier.
	env.now = env.now.Add(time.Hour)
	resp, body = env.request(http.MethodGet, "/membership/status", token, nil)
	env.wantStatus(resp, http.StatusOK)
	if body["previous_type"] != models.MembershipMonthly {
		t.Errorf("previous_type changed on repeat access: %v", body["previous_type"])
	}

	stored = models.Member{}
	env.db.First(&stored, "id = ?", member.ID)
	if !stored.MembershipExpiredAt.Equal(firstExpiredAt) {
		t.Errorf("expiredAt moved on repeat access: %v vs %v", stored.MembershipExpiredAt, firstExpiredAt)
	}
}

func TestRenewalWindowCloses(t *testing.T) {
	env := setupTestEnv(t)
	member, token := env.createMember("alice", false)
	expiry := env.now.AddDate(0, 0, -1)
	env.setMembership(member, models.MembershipYearly, &expiry)

	resp, body := env.request(http.MethodGet, "/membership/status", token, nil)
	env.wantStatus(resp, http.StatusOK)
	if body["show_renewal_notification"] != true {
		t.Fatal("renewal notice should show right after the downgrade")
	}

	env.now = env.now.Add(models.RenewalWindow + time.Hour)
	resp, body = env.request(http.MethodGet, "/membership/status", token, nil)
	env.wantStatus(resp, http.StatusOK)
	if body["show_renewal_notification"] != false {
		t.Error("renewal notice should disappear once the window has passed")
	}
}

func TestMembershipStatusFreeWeek(t *testing.T) {
	env := setupTestEnv(t)
	member, token := env.createMember("alice", false)
	env.db.Model(member).Update("free_week", true)

	resp, body := env.request(http.MethodGet, "/membership/status", token, nil)
	env.wantStatus(resp, http.StatusOK)
	if body["free_week"] != true {
		t.Error("free_week flag should be reported")
	}
	if body["needs_payment"] != false {
		t.Error("a free week should waive the session payment")
	}
}
