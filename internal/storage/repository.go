// Package storage persists members, the chama record and contributions in
// SQLite through database/sql.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"chama/internal/core"

	_ "modernc.org/sqlite"
)

// Repository owns the pooled database handle. Every query runs against the
// pool with the caller's context, so concurrent requests never serialize on a
// single shared connection.
type Repository struct {
	db *sql.DB
}

func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable; the readiness probe uses it.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const memberColumns = "id, full_name, phone, pin, is_admin, photo_url, created_at"

// MemberByPhone looks up the login record for a phone number. The phone
// column is unique, the LIMIT keeps the lookup shape explicit anyway.
func (r *Repository) MemberByPhone(ctx context.Context, phone string) (core.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE phone = ? LIMIT 1", phone)
	return scanMember(row)
}

func (r *Repository) MemberByID(ctx context.Context, id int64) (core.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = ?", id)
	return scanMember(row)
}

// CurrentChama returns the group record. The table is expected to hold a
// single row; when more exist the first by id wins, when none exist
// core.ErrNotFound is returned and callers treat the chama as absent.
func (r *Repository) CurrentChama(ctx context.Context) (core.Chama, error) {
	var (
		c      core.Chama
		target string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, monthly_target, meeting_day, created_at FROM chama ORDER BY id LIMIT 1").
		Scan(&c.ID, &c.Name, &c.Description, &target, &c.MeetingDay, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Chama{}, core.ErrNotFound
	}
	if err != nil {
		return core.Chama{}, fmt.Errorf("query chama: %w", err)
	}
	if c.MonthlyTarget, err = decimal.NewFromString(target); err != nil {
		return core.Chama{}, fmt.Errorf("parse monthly target %q: %w", target, err)
	}
	return c, nil
}

// ContributionsByMember returns a member's full contribution history, most
// recent first. The id tiebreak keeps ordering deterministic for rows created
// within the same timestamp granularity.
func (r *Repository) ContributionsByMember(ctx context.Context, memberID int64) ([]core.Contribution, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member_id, amount, status, payment_method, created_at
		 FROM contributions WHERE member_id = ?
		 ORDER BY created_at DESC, id DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("query contributions: %w", err)
	}
	defer rows.Close()

	history := make([]core.Contribution, 0)
	for rows.Next() {
		var (
			c      core.Contribution
			amount string
		)
		if err := rows.Scan(&c.ID, &c.MemberID, &amount, &c.Status, &c.PaymentMethod, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		history = append(history, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contributions: %w", err)
	}
	return history, nil
}

// UpdateMember overwrites a member's profile fields in place. An empty photo
// URL clears the stored photo.
func (r *Repository) UpdateMember(ctx context.Context, id int64, fullName, phone, photoURL string) error {
	var photo any
	if photoURL != "" {
		photo = photoURL
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE members SET full_name = ?, phone = ?, photo_url = ? WHERE id = ?",
		fullName, phone, photo, id)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

// MemberContributionRows fetches every member left-joined with their
// contributions in one pass, ordered by member id then contribution recency
// descending. The grouping itself happens in core.GroupByMember, which relies
// on exactly this ordering.
func (r *Repository) MemberContributionRows(ctx context.Context) ([]core.MemberContributionRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.full_name, m.phone, m.is_admin, m.photo_url,
		        c.id, c.amount, c.status, c.payment_method, c.created_at
		 FROM members m
		 LEFT JOIN contributions c ON c.member_id = m.id
		 ORDER BY m.id, c.created_at DESC, c.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query members with contributions: %w", err)
	}
	defer rows.Close()

	result := make([]core.MemberContributionRow, 0)
	for rows.Next() {
		var (
			row       core.MemberContributionRow
			photo     sql.NullString
			contribID sql.NullInt64
			amount    sql.NullString
			status    sql.NullString
			method    sql.NullString
			createdAt sql.NullTime
		)
		if err := rows.Scan(&row.MemberID, &row.FullName, &row.Phone, &row.IsAdmin, &photo,
			&contribID, &amount, &status, &method, &createdAt); err != nil {
			return nil, fmt.Errorf("scan joined row: %w", err)
		}
		row.PhotoURL = photo.String
		if contribID.Valid {
			amt, err := decimal.NewFromString(amount.String)
			if err != nil {
				return nil, fmt.Errorf("parse amount %q: %w", amount.String, err)
			}
			row.Contribution = &core.Contribution{
				ID:            contribID.Int64,
				MemberID:      row.MemberID,
				Amount:        amt,
				Status:        status.String,
				PaymentMethod: method.String,
				CreatedAt:     createdAt.Time,
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate joined rows: %w", err)
	}
	return result, nil
}

// SetContributionStatus overwrites a contribution's status and returns the
// number of rows touched. Zero rows is not an error: updating an id that does
// not exist succeeds silently, matching the approval contract.
func (r *Repository) SetContributionStatus(ctx context.Context, id int64, status string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE contributions SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return 0, fmt.Errorf("update contribution status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// CreateMember inserts a member record. Members are normally provisioned
// outside this API; this exists for fixtures and seeding.
func (r *Repository) CreateMember(ctx context.Context, m core.Member) (int64, error) {
	var photo any
	if m.PhotoURL != "" {
		photo = m.PhotoURL
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO members (full_name, phone, pin, is_admin, photo_url, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		m.FullName, m.Phone, m.PIN, m.IsAdmin, photo, createdAt(m.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert member: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("member id: %w", err)
	}
	slog.InfoContext(ctx, "Member created", "member_id", id, "phone", m.Phone)
	return id, nil
}

// CreateChama inserts the group record.
func (r *Repository) CreateChama(ctx context.Context, c core.Chama) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO chama (name, description, monthly_target, meeting_day, created_at) VALUES (?, ?, ?, ?, ?)",
		c.Name, c.Description, c.MonthlyTarget.String(), c.MeetingDay, createdAt(c.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert chama: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("chama id: %w", err)
	}
	return id, nil
}

// CreateContribution inserts a contribution record. An empty status defaults
// to pending.
func (r *Repository) CreateContribution(ctx context.Context, c core.Contribution) (int64, error) {
	status := c.Status
	if status == "" {
		status = core.StatusPending
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO contributions (member_id, amount, status, payment_method, created_at) VALUES (?, ?, ?, ?, ?)",
		c.MemberID, c.Amount.String(), status, c.PaymentMethod, createdAt(c.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert contribution: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("contribution id: %w", err)
	}
	return id, nil
}

func scanMember(row *sql.Row) (core.Member, error) {
	var (
		m     core.Member
		photo sql.NullString
	)
	err := row.Scan(&m.ID, &m.FullName, &m.Phone, &m.PIN, &m.IsAdmin, &photo, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Member{}, core.ErrNotFound
	}
	if err != nil {
		return core.Member{}, fmt.Errorf("scan member: %w", err)
	}
	m.PhotoURL = photo.String
	return m, nil
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
