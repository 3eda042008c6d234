// Package services orchestrates the chama operations across storage and the
// optional event broker.
package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"chama/internal/core"
	"chama/internal/storage"
)

// MemberService covers login, the member dashboard, profile updates and the
// admin member listing.
type MemberService struct {
	repo *storage.Repository
}

func NewMemberService(repo *storage.Repository) *MemberService {
	return &MemberService{repo: repo}
}

// Login checks a phone/PIN pair against the stored bcrypt hash. It returns
// core.ErrNotFound for an unknown phone and core.ErrInvalidPIN on mismatch.
// No session or token is issued.
func (s *MemberService) Login(ctx context.Context, phone, pin string) (core.LoginResult, error) {
	m, err := s.repo.MemberByPhone(ctx, phone)
	if errors.Is(err, core.ErrNotFound) {
		return core.LoginResult{}, core.ErrNotFound
	}
	if err != nil {
		return core.LoginResult{}, fmt.Errorf("lookup member: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.PIN), []byte(pin)); err != nil {
		return core.LoginResult{}, core.ErrInvalidPIN
	}

	return core.LoginResult{
		MemberID: m.ID,
		Name:     m.FullName,
		IsAdmin:  m.IsAdmin,
	}, nil
}

// Dashboard aggregates the member record, the current chama, the contribution
// history and the decimal total. The member fetch gates the rest; chama and
// history are then fetched concurrently. Any storage error fails the whole
// aggregation, partial results are never returned. A missing chama row is not
// an error: the field stays nil and is omitted from the response.
func (s *MemberService) Dashboard(ctx context.Context, memberID int64) (core.Dashboard, error) {
	member, err := s.repo.MemberByID(ctx, memberID)
	if errors.Is(err, core.ErrNotFound) {
		return core.Dashboard{}, core.ErrNotFound
	}
	if err != nil {
		return core.Dashboard{}, fmt.Errorf("fetch member: %w", err)
	}

	var (
		chama   *core.Chama
		history []core.Contribution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.repo.CurrentChama(gctx)
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch chama: %w", err)
		}
		chama = &c
		return nil
	})
	g.Go(func() error {
		h, err := s.repo.ContributionsByMember(gctx, memberID)
		if err != nil {
			return fmt.Errorf("fetch contributions: %w", err)
		}
		history = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Dashboard{}, err
	}

	return core.Dashboard{
		Member:             member,
		Chama:              chama,
		TotalContributions: core.FormatTotal(core.TotalContributions(history)),
		History:            history,
	}, nil
}

// Update overwrites a member's full_name, phone and photo_url in place and
// acknowledges without returning the record. Applying the same update twice
// leaves the same stored state as once.
func (s *MemberService) Update(ctx context.Context, memberID int64, fullName, phone, photoURL string) error {
	if err := s.repo.UpdateMember(ctx, memberID, fullName, phone, photoURL); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

// ListWithContributions returns every member with their grouped contribution
// history for the admin screen: members ascending by id, contributions most
// recent first, empty list for members without any.
func (s *MemberService) ListWithContributions(ctx context.Context) ([]core.MemberContributions, error) {
	rows, err := s.repo.MemberContributionRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return core.GroupByMember(rows), nil
}
