package pgrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/ieee-its/nightslip/core/user"
)

const pgUniqueViolation = "23505"

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) BulkUpsertUsers(ctx context.Context, users []user.User) (int, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning bulk upsert")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO users (name, reg_no, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (LOWER(email))
		DO UPDATE SET name = EXCLUDED.name, reg_no = EXCLUDED.reg_no`)
	if err != nil {
		return 0, errors.Wrap(err, "preparing bulk upsert")
	}
	defer func() { _ = stmt.Close() }()

	var count int
	for _, usr := range users {
		if _, err = stmt.ExecContext(ctx, usr.Name, usr.RegNo, usr.Email); err != nil {
			return 0, errors.Wrap(err, "upserting user "+usr.Email)
		}
		count++
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing bulk upsert")
	}
	return count, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.SelectContext(ctx, &users,
		`SELECT id, name, reg_no, email FROM users ORDER BY name, id`)
	return users, errors.Wrap(err, "querying users")
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		`SELECT id, name, reg_no, email FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user by id")
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		`SELECT id, name, reg_no, email FROM users WHERE LOWER(email) = LOWER($1)`, email)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user by email")
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET name = $1, reg_no = $2, email = $3 WHERE id = $4`,
		usr.Name, usr.RegNo, usr.Email, usr.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUser(ctx context.Context, id int) error {
	// attendance rows go with it (ON DELETE CASCADE)
	res, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}
