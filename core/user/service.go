package user

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/ieee-its/nightslip/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		// BulkUpsertUsers inserts-or-updates users keyed on lower(email),
		// all in one transaction. Returns the number of rows written.
		BulkUpsertUsers(ctx context.Context, users []User) (int, error)
		QueryAllUsers(ctx context.Context) ([]User, error) // ordered by name
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		// DeleteUser removes the user and all their attendance rows.
		DeleteUser(ctx context.Context, id int) error
	}

	Service struct {
		repo     Repository
		exporter core.ExportService
		validate *validator.Validate
	}
)

func NewService(repo Repository, exporter core.ExportService, validate *validator.Validate) *Service {
	return &Service{repo: repo, exporter: exporter, validate: validate}
}

// BulkUpsert imports roster rows, keyed on email. Rows missing a name or a
// usable email are skipped rather than failing the whole batch.
func (svc *Service) BulkUpsert(ctx context.Context, rows []NewUser) (int, error) {
	users := make([]User, 0, len(rows))
	for i := range rows {
		if err := rows[i].Validate(svc.validate); err != nil {
			continue
		}
		users = append(users, User{
			Name:  rows[i].Name,
			RegNo: rows[i].RegNo,
			Email: rows[i].Email,
		})
	}
	if len(users) == 0 {
		return 0, nil
	}

	n, err := svc.repo.BulkUpsertUsers(ctx, users)
	if err != nil {
		return 0, err
	}
	svc.exporter.Export()
	return n, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// UpdateField applies an admin single-field edit to the roster.
func (svc *Service) UpdateField(ctx context.Context, id int, uf UpdateUserField) (User, error) {
	if err := uf.Validate(svc.validate); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	usr, err = svc.repo.UpdateUser(ctx, uf.Apply(usr))
	if err != nil {
		return User{}, err
	}
	svc.exporter.Export()
	return usr, nil
}

// Delete removes a user and, by cascade, their whole attendance history.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetUserByID(ctx, id); err != nil {
		return err
	}
	if err := svc.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	svc.exporter.Export()
	return nil
}
