package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"chama/internal/core"
	"chama/internal/storage"
)

func openTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "chama.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func hashPIN(t *testing.T, pin string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	return string(hash)
}

func seedJane(t *testing.T, repo *storage.Repository) int64 {
	t.Helper()
	id, err := repo.CreateMember(context.Background(), core.Member{
		FullName: "Jane Doe",
		Phone:    "0700000000",
		PIN:      hashPIN(t, "1234"),
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return id
}

func TestLogin(t *testing.T) {
	repo := openTestRepo(t)
	svc := NewMemberService(repo)
	ctx := context.Background()
	id := seedJane(t, repo)

	res, err := svc.Login(ctx, "0700000000", "1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.MemberID != id || res.Name != "Jane Doe" || res.IsAdmin {
		t.Fatalf("unexpected login result: %+v", res)
	}

	if _, err := svc.Login(ctx, "0700000000", "0000"); !errors.Is(err, core.ErrInvalidPIN) {
		t.Fatalf("wrong pin should return ErrInvalidPIN, got %v", err)
	}
	if _, err := svc.Login(ctx, "0712345678", "1234"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown phone should return ErrNotFound, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	repo := openTestRepo(t)
	svc := NewMemberService(repo)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	id := seedJane(t, repo)
	target, _ := decimal.NewFromString("2000")
	if _, err := repo.CreateChama(ctx, core.Chama{Name: "Umoja Savings", MonthlyTarget: target}); err != nil {
		t.Fatalf("seed chama: %v", err)
	}
	for i, amount := range []string{"100", "250.5", "99.99"} {
		a, _ := decimal.NewFromString(amount)
		if _, err := repo.CreateContribution(ctx, core.Contribution{
			MemberID:      id,
			Amount:        a,
			PaymentMethod: "mpesa",
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("seed contribution: %v", err)
		}
	}

	d, err := svc.Dashboard(ctx, id)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.Member.ID != id {
		t.Fatalf("member id = %d, want %d", d.Member.ID, id)
	}
	if d.Chama == nil || d.Chama.Name != "Umoja Savings" {
		t.Fatalf("chama missing or wrong: %+v", d.Chama)
	}
	if d.TotalContributions != "450.49" {
		t.Fatalf("total = %q, want 450.49", d.TotalContributions)
	}
	if len(d.History) != 3 {
		t.Fatalf("history = %d entries, want 3", len(d.History))
	}
	for i := 1; i < len(d.History); i++ {
		if d.History[i-1].CreatedAt.Before(d.History[i].CreatedAt) {
			t.Fatal("history not sorted most recent first")
		}
	}

	if _, err := svc.Dashboard(ctx, 999999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown member should return ErrNotFound, got %v", err)
	}
}

func TestDashboardWithoutChamaOrHistory(t *testing.T) {
	repo := openTestRepo(t)
	svc := NewMemberService(repo)
	ctx := context.Background()
	id := seedJane(t, repo)

	d, err := svc.Dashboard(ctx, id)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.Chama != nil {
		t.Fatalf("chama should be nil when no row exists, got %+v", d.Chama)
	}
	if d.TotalContributions != "0.00" {
		t.Fatalf("total = %q, want 0.00", d.TotalContributions)
	}
	if d.History == nil || len(d.History) != 0 {
		t.Fatalf("history should be empty, got %#v", d.History)
	}
}

func TestUpdateAndList(t *testing.T) {
	repo := openTestRepo(t)
	svc := NewMemberService(repo)
	ctx := context.Background()
	id := seedJane(t, repo)

	if err := svc.Update(ctx, id, "Jane A. Doe", "0711111111", "https://example.com/p.jpg"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	entries, err := svc.ListWithContributions(ctx)
	if err != nil {
		t.Fatalf("ListWithContributions: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.FullName != "Jane A. Doe" || e.Phone != "0711111111" || e.PhotoURL != "https://example.com/p.jpg" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Contributions == nil || len(e.Contributions) != 0 {
		t.Fatalf("expected empty contribution list, got %#v", e.Contributions)
	}
}
