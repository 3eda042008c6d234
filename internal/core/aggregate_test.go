package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTotalContributionsFormatting(t *testing.T) {
	cases := []struct {
		name    string
		amounts []string
		want    string
	}{
		{"empty", nil, "0.00"},
		{"single", []string{"150"}, "150.00"},
		{"cents", []string{"0.1", "0.2"}, "0.30"},
		{"mixed precision", []string{"1000", "250.5", "99.99"}, "1350.49"},
		{"many small", []string{"0.01", "0.01", "0.01", "0.01", "0.01", "0.01", "0.01", "0.01", "0.01", "0.01"}, "0.10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var history []Contribution
			for _, a := range tc.amounts {
				history = append(history, Contribution{Amount: amt(a)})
			}
			if got := FormatTotal(TotalContributions(history)); got != tc.want {
				t.Fatalf("total = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTotalContributionsOrderIndependent(t *testing.T) {
	forward := []Contribution{
		{Amount: amt("0.1")}, {Amount: amt("0.2")}, {Amount: amt("1000.7")},
	}
	backward := []Contribution{
		{Amount: amt("1000.7")}, {Amount: amt("0.2")}, {Amount: amt("0.1")},
	}
	a := FormatTotal(TotalContributions(forward))
	b := FormatTotal(TotalContributions(backward))
	if a != b || a != "1001.00" {
		t.Fatalf("order changed total: %q vs %q", a, b)
	}
}

func TestGroupByMember(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := func(id, memberID int64, minutesAgo int) *Contribution {
		return &Contribution{
			ID:        id,
			MemberID:  memberID,
			Amount:    amt("100"),
			Status:    StatusPending,
			CreatedAt: now.Add(-time.Duration(minutesAgo) * time.Minute),
		}
	}

	// Pre-sorted as the LEFT JOIN query delivers: member id ascending,
	// contributions most recent first within each member. Member 2 has none.
	rows := []MemberContributionRow{
		{MemberID: 1, FullName: "Jane Doe", Phone: "0700000000", Contribution: c(11, 1, 1)},
		{MemberID: 1, FullName: "Jane Doe", Phone: "0700000000", Contribution: c(10, 1, 5)},
		{MemberID: 2, FullName: "No Deposits", Phone: "0700000001"},
		{MemberID: 3, FullName: "Admin", Phone: "0700000002", IsAdmin: true, Contribution: c(12, 3, 2)},
	}

	entries := GroupByMember(rows)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	for i, wantID := range []int64{1, 2, 3} {
		if entries[i].ID != wantID {
			t.Fatalf("entry %d has id %d, want %d", i, entries[i].ID, wantID)
		}
	}

	jane := entries[0]
	if len(jane.Contributions) != 2 {
		t.Fatalf("jane has %d contributions, want 2", len(jane.Contributions))
	}
	if jane.Contributions[0].ID != 11 || jane.Contributions[1].ID != 10 {
		t.Fatalf("jane's contributions out of order: %d, %d", jane.Contributions[0].ID, jane.Contributions[1].ID)
	}
	if !jane.Contributions[0].CreatedAt.After(jane.Contributions[1].CreatedAt) {
		t.Fatal("jane's contributions not most-recent-first")
	}

	if entries[1].Contributions == nil || len(entries[1].Contributions) != 0 {
		t.Fatalf("member without contributions should get an empty list, got %#v", entries[1].Contributions)
	}
	if !entries[2].IsAdmin {
		t.Fatal("admin flag lost in grouping")
	}
}

func TestGroupByMemberEmpty(t *testing.T) {
	entries := GroupByMember(nil)
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty slice, got %#v", entries)
	}
}
