// models/membership.go
package models

import "time"

// Membership tiers. WEEKLY is pay-per-attendance and has no expiry concept;
// MONTHLY and YEARLY are prepaid and time-bounded.
const (
	MembershipWeekly  = "WEEKLY"
	MembershipMonthly = "MONTHLY"
	MembershipYearly  = "YEARLY"
)

// Prices in GBP. Weekly is charged per Monday session attended; the paid
// tiers are one-off subscription prices with no per-session charge.
const (
	WeeklySessionPrice = 3.0
	MonthlyPrice       = 10.0
	YearlyPrice        = 100.0
)

// RenewalWindow is how long the renewal notice stays up after an
// auto-downgrade.
const RenewalWindow = 14 * 24 * time.Hour

// IsValidMembershipType reports whether s names a known tier.
func IsValidMembershipType(s string) bool {
	switch s {
	case MembershipWeekly, MembershipMonthly, MembershipYearly:
		return true
	}
	return false
}

// IsMembershipActive reports whether the member is currently covered.
// Weekly members are always "active" but pay per attendance.
func IsMembershipActive(membershipType string, expiry *time.Time, now time.Time) bool {
	if membershipType == MembershipWeekly {
		return true
	}
	if expiry == nil {
		return false
	}
	return now.Before(*expiry)
}

// HasMembershipExpired reports whether a paid tier has lapsed and the member
// should be downgraded. A missing expiry on a paid tier counts as expired so
// a corrupted record fails closed (payment required) rather than open.
func HasMembershipExpired(membershipType string, expiry *time.Time, now time.Time) bool {
	if membershipType == MembershipWeekly {
		return false
	}
	if expiry == nil {
		return true
	}
	return !now.Before(*expiry)
}

// IsWithinRenewalWindow reports whether the member is inside the two-week
// notification window after an auto-downgrade. Both bounds are inclusive.
func IsWithinRenewalWindow(expiredAt *time.Time, now time.Time) bool {
	if expiredAt == nil {
		return false
	}
	since := now.Sub(*expiredAt)
	return since >= 0 && since <= RenewalWindow
}

// MembershipPrice returns the price of a tier (per session for weekly,
// one-off for the paid tiers).
func MembershipPrice(membershipType string) float64 {
	switch membershipType {
	case MembershipWeekly:
		return WeeklySessionPrice
	case MembershipMonthly:
		return MonthlyPrice
	case MembershipYearly:
		return YearlyPrice
	}
	return 0
}

// CalculateExpiry computes the new expiry when a tier is assigned:
// +1 calendar month for monthly, +1 calendar year for yearly, nil for weekly.
func CalculateExpiry(membershipType string, now time.Time) *time.Time {
	switch membershipType {
	case MembershipMonthly:
		t := now.AddDate(0, 1, 0)
		return &t
	case MembershipYearly:
		t := now.AddDate(1, 0, 0)
		return &t
	}
	return nil
}

// NeedsPaymentForSession reports whether the member owes the weekly session
// price for an attended session. A free week always waives payment; an active
// paid membership covers it; everyone else (weekly members, lapsed paid
// members) pays.
func (m *Member) NeedsPaymentForSession(now time.Time) bool {
	if m.FreeWeek {
		return false
	}
	if m.MembershipType != MembershipWeekly && IsMembershipActive(m.MembershipType, m.MembershipExpiry, now) {
		return false
	}
	return true
}
