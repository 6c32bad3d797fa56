package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/ieee-its/nightslip/core/user"
)

var userPKCount int

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.user.table))
	for _, usr := range repo.db.user.table {
		users = append(users, *usr)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name == users[j].Name {
			return users[i].ID < users[j].ID
		}
		return users[i].Name < users[j].Name
	})
	return users
}

func (repo *userRepository) BulkUpsertUsers(_ context.Context, users []user.User) (int, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	for _, usr := range users {
		if existing := repo.findByEmail(usr.Email); existing != nil {
			existing.Name = usr.Name
			existing.RegNo = usr.RegNo
			continue
		}
		userPKCount++
		usr.ID = userPKCount
		u := usr // the range variable is reused across iterations
		repo.db.user.table[u.ID] = &u
	}
	return len(users), nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id int) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if usr, ok := repo.db.user.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if usr := repo.findByEmail(email); usr != nil {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	orig, ok := repo.db.user.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if dup := repo.findByEmail(usr.Email); dup != nil && dup.ID != usr.ID {
		return user.User{}, user.ErrEmailExists
	}
	orig.Name = usr.Name
	orig.RegNo = usr.RegNo
	orig.Email = usr.Email
	return *orig, nil
}

func (repo *userRepository) DeleteUser(_ context.Context, id int) error {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()
	if _, ok := repo.db.user.table[id]; !ok {
		return user.ErrNotFound
	}
	delete(repo.db.user.table, id)

	// cascade: the real store does this with an FK
	repo.db.attendance.Lock()
	defer repo.db.attendance.Unlock()
	for key := range repo.db.attendance.rows {
		if key.userID == id {
			delete(repo.db.attendance.rows, key)
		}
	}
	return nil
}

func (repo *userRepository) findByEmail(email string) *user.User {
	for _, usr := range repo.db.user.table {
		if strings.EqualFold(usr.Email, email) {
			return usr
		}
	}
	return nil
}
