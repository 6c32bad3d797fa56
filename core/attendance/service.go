package attendance

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/ieee-its/nightslip/core"
	"github.com/ieee-its/nightslip/core/user"
)

var (
	// errors
	ErrDateNotFound = errors.New("date not found")
	ErrDateExists   = errors.New("this date is already being tracked")
	ErrRowNotFound  = errors.New("attendance row not found")
)

type (
	Repository interface {
		CreateDate(ctx context.Context, dateString string) (Date, error) // ErrDateExists on duplicate
		QueryAllDates(ctx context.Context) ([]Date, error)               // newest first
		GetDateByID(ctx context.Context, id int) (Date, error)
		// DeleteDate removes the date and all its attendance rows.
		DeleteDate(ctx context.Context, id int) error

		GetRow(ctx context.Context, userID, dateID int) (Row, error) // ErrRowNotFound when absent
		// UpsertRow writes the full row, keyed on (user_id, date_id).
		UpsertRow(ctx context.Context, row Row) (Row, error)
		QueryRowsByDate(ctx context.Context, dateID int) ([]Row, error)
		QueryAllRows(ctx context.Context) ([]Row, error)
		DeleteRowsByDate(ctx context.Context, dateID int) error
	}

	Service struct {
		repo     Repository
		users    user.Repository
		exporter core.ExportService
		validate *validator.Validate
	}
)

func NewService(repo Repository, users user.Repository, exporter core.ExportService, validate *validator.Validate) *Service {
	return &Service{repo: repo, users: users, exporter: exporter, validate: validate}
}

func (svc *Service) CreateDate(ctx context.Context, nd NewDate) (Date, error) {
	if err := nd.Validate(svc.validate); err != nil {
		return Date{}, err
	}
	date, err := svc.repo.CreateDate(ctx, nd.DateString)
	if err != nil {
		return Date{}, err
	}
	svc.exporter.Export()
	return date, nil
}

func (svc *Service) QueryDates(ctx context.Context) ([]Date, error) {
	return svc.repo.QueryAllDates(ctx)
}

func (svc *Service) DeleteDate(ctx context.Context, id int) error {
	if _, err := svc.repo.GetDateByID(ctx, id); err != nil {
		return err
	}
	if err := svc.repo.DeleteDate(ctx, id); err != nil {
		return err
	}
	svc.exporter.Export()
	return nil
}

// Entries returns the joined attendance view for a date: one entry per
// roster user, ordered by name, with defaults substituted for missing rows.
func (svc *Service) Entries(ctx context.Context, dateID int) ([]Entry, error) {
	if _, err := svc.repo.GetDateByID(ctx, dateID); err != nil {
		return nil, err
	}

	users, err := svc.users.QueryAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := svc.repo.QueryRowsByDate(ctx, dateID)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int]Row, len(rows))
	for _, row := range rows {
		byUser[row.UserID] = row
	}

	entries := make([]Entry, 0, len(users))
	for _, usr := range users {
		row, ok := byUser[usr.ID]
		if !ok {
			row = DefaultRow(usr.ID, dateID)
		}
		entries = append(entries, newEntry(usr, row))
	}
	return entries, nil
}

// ApplyFieldUpdate runs the transition rule for one entry field edit and
// persists the resulting row. The row is created lazily on first edit.
func (svc *Service) ApplyFieldUpdate(ctx context.Context, actor Actor, dateID, userID int, fu FieldUpdate) (Entry, error) {
	if err := fu.Validate(svc.validate); err != nil {
		return Entry{}, err
	}

	if _, err := svc.repo.GetDateByID(ctx, dateID); err != nil {
		return Entry{}, err
	}
	target, err := svc.users.GetUserByID(ctx, userID)
	if err != nil {
		return Entry{}, err
	}

	cur, err := svc.repo.GetRow(ctx, userID, dateID)
	if err != nil {
		if err != ErrRowNotFound {
			return Entry{}, err
		}
		cur = DefaultRow(userID, dateID)
	}

	next, err := Transition(actor, target, fu, cur)
	if err != nil {
		return Entry{}, err
	}

	saved, err := svc.repo.UpsertRow(ctx, next)
	if err != nil {
		return Entry{}, err
	}
	svc.exporter.Export()
	return newEntry(target, saved), nil
}

// ResetDate deletes every attendance row for a date, reverting all users to
// the default (unlocked) state.
func (svc *Service) ResetDate(ctx context.Context, dateID int) error {
	if _, err := svc.repo.GetDateByID(ctx, dateID); err != nil {
		return err
	}
	if err := svc.repo.DeleteRowsByDate(ctx, dateID); err != nil {
		return err
	}
	svc.exporter.Export()
	return nil
}
