package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Contribution approval statuses. The approval endpoint writes the supplied
// status verbatim, so these are the expected values rather than an enforced set.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidPIN = errors.New("invalid pin")
)

type (
	// Member is a registered chama participant. PIN holds the bcrypt hash of
	// the login credential and is never serialized.
	Member struct {
		ID        int64     `json:"id"`
		FullName  string    `json:"full_name"`
		Phone     string    `json:"phone"`
		PIN       string    `json:"-"`
		IsAdmin   bool      `json:"is_admin"`
		PhotoURL  string    `json:"photo_url"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Chama is the singleton group-configuration record. The current chama is
	// whichever row sorts first; the data layer does not key the selection.
	Chama struct {
		ID            int64           `json:"id"`
		Name          string          `json:"name"`
		Description   string          `json:"description"`
		MonthlyTarget decimal.Decimal `json:"monthly_target"`
		MeetingDay    string          `json:"meeting_day"`
		CreatedAt     time.Time       `json:"created_at"`
	}

	// Contribution is a monetary transaction attributed to one member.
	Contribution struct {
		ID            int64           `json:"id"`
		MemberID      int64           `json:"member_id"`
		Amount        decimal.Decimal `json:"amount"`
		Status        string          `json:"status"`
		PaymentMethod string          `json:"payment_method"`
		CreatedAt     time.Time       `json:"created_at"`
	}
)

// LoginResult carries the fields a successful credential check returns.
// No session or token is issued; callers carry these fields themselves.
type LoginResult struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
}

// Dashboard aggregates everything the member home screen needs. Chama is nil
// when no group record exists, in which case the field is omitted from JSON.
type Dashboard struct {
	Member             Member         `json:"member"`
	Chama              *Chama         `json:"chama,omitempty"`
	TotalContributions string         `json:"total_contributions"`
	History            []Contribution `json:"history"`
}

// MemberContributions is one entry of the admin listing: a member's scalar
// fields plus that member's contributions, most recent first.
type MemberContributions struct {
	ID            int64          `json:"id"`
	FullName      string         `json:"full_name"`
	Phone         string         `json:"phone"`
	IsAdmin       bool           `json:"is_admin"`
	PhotoURL      string         `json:"photo_url"`
	Contributions []Contribution `json:"contributions"`
}

// MemberContributionRow is one flat row of the members LEFT JOIN contributions
// result set. Contribution is nil when the join key was NULL, i.e. the member
// has no contributions.
type MemberContributionRow struct {
	MemberID     int64
	FullName     string
	Phone        string
	IsAdmin      bool
	PhotoURL     string
	Contribution *Contribution
}
