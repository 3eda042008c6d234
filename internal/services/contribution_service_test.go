package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"chama/internal/core"
)

type recordingPublisher struct {
	ids      []int64
	statuses []string
	err      error
}

func (p *recordingPublisher) PublishContributionStatus(ctx context.Context, id int64, status string) error {
	p.ids = append(p.ids, id)
	p.statuses = append(p.statuses, status)
	return p.err
}

func TestApprovePublishesEvent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	jane := seedJane(t, repo)

	amount, _ := decimal.NewFromString("500")
	cid, err := repo.CreateContribution(ctx, core.Contribution{
		MemberID:      jane,
		Amount:        amount,
		PaymentMethod: "mpesa",
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed contribution: %v", err)
	}

	pub := &recordingPublisher{}
	svc := NewContributionService(repo, pub)

	if err := svc.Approve(ctx, cid, core.StatusConfirmed); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if len(pub.ids) != 1 || pub.ids[0] != cid || pub.statuses[0] != core.StatusConfirmed {
		t.Fatalf("expected one published event for %d/confirmed, got %v/%v", cid, pub.ids, pub.statuses)
	}

	history, err := repo.ContributionsByMember(ctx, jane)
	if err != nil {
		t.Fatalf("ContributionsByMember: %v", err)
	}
	if history[0].Status != core.StatusConfirmed {
		t.Fatalf("status = %q, want confirmed", history[0].Status)
	}
}

func TestApproveNonexistentSucceedsWithoutEvent(t *testing.T) {
	repo := openTestRepo(t)
	pub := &recordingPublisher{}
	svc := NewContributionService(repo, pub)

	if err := svc.Approve(context.Background(), 999999, core.StatusRejected); err != nil {
		t.Fatalf("Approve nonexistent id should succeed, got %v", err)
	}
	if len(pub.ids) != 0 {
		t.Fatalf("no event should be published for a no-op update, got %v", pub.ids)
	}
}

func TestApprovePublishFailureDoesNotFailRequest(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	jane := seedJane(t, repo)

	amount, _ := decimal.NewFromString("100")
	cid, err := repo.CreateContribution(ctx, core.Contribution{
		MemberID: jane, Amount: amount, PaymentMethod: "cash", CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed contribution: %v", err)
	}

	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewContributionService(repo, pub)

	if err := svc.Approve(ctx, cid, core.StatusRejected); err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
}

func TestApproveWithoutPublisher(t *testing.T) {
	repo := openTestRepo(t)
	svc := NewContributionService(repo, nil)

	if err := svc.Approve(context.Background(), 999999, core.StatusConfirmed); err != nil {
		t.Fatalf("Approve without publisher: %v", err)
	}
}
