package services

import (
	"context"
	"fmt"
	"log/slog"

	"chama/internal/storage"
)

// StatusPublisher announces contribution status changes to interested
// consumers. *amqp.Client implements it; a nil publisher disables events.
type StatusPublisher interface {
	PublishContributionStatus(ctx context.Context, id int64, status string) error
}

// ContributionService handles the approval workflow.
type ContributionService struct {
	repo      *storage.Repository
	publisher StatusPublisher
}

func NewContributionService(repo *storage.Repository, publisher StatusPublisher) *ContributionService {
	return &ContributionService{repo: repo, publisher: publisher}
}

// Approve overwrites a contribution's status with the supplied value. The
// status is written verbatim and the contribution's existence is not checked
// first: updating an unknown id touches zero rows and still succeeds. The
// status-change event is best effort; a publish failure never fails the
// request once the write has landed.
func (s *ContributionService) Approve(ctx context.Context, id int64, status string) error {
	affected, err := s.repo.SetContributionStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("set contribution status: %w", err)
	}
	if affected == 0 {
		slog.WarnContext(ctx, "Contribution status update matched no rows",
			"contribution_id", id, "status", status)
		return nil
	}

	if s.publisher != nil {
		if err := s.publisher.PublishContributionStatus(ctx, id, status); err != nil {
			slog.ErrorContext(ctx, "Failed to publish contribution status event",
				"contribution_id", id, "status", status, "error", err)
		}
	}

	return nil
}
