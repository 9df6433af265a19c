package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-bank-ledger/model"
	"go-bank-ledger/repository"
)

// UserRepository is the in-memory user directory.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]model.User
}

var _ repository.IUserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]model.User)}
}

func (r *UserRepository) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	r.nextID++
	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) UserExists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetUserByUsername(ctx, username)
	return err == nil, nil
}

func (r *UserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) ListUsers(_ context.Context) ([]*model.User, error) {
	return r.list(func(model.User) bool { return true }), nil
}

func (r *UserRepository) ListUsersByRole(_ context.Context, role string) ([]*model.User, error) {
	return r.list(func(u model.User) bool { return u.Role == role }), nil
}

func (r *UserRepository) list(keep func(model.User) bool) []*model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		if !keep(u) {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *UserRepository) update(id int64, fn func(*model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

func (r *UserRepository) UpdateUserProfile(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range r.users {
		if id != user.ID && other.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	u.FirstName, u.LastName, u.Email, u.Phone = user.FirstName, user.LastName, user.Email, user.Phone
	u.AddressLine1, u.AddressLine2 = user.AddressLine1, user.AddressLine2
	u.City, u.State, u.PostalCode = user.City, user.State, user.PostalCode
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = u
	user.UpdatedAt = u.UpdatedAt
	return nil
}

func (r *UserRepository) UpdateUserStatus(_ context.Context, id int64, status string) error {
	return r.update(id, func(u *model.User) { u.Status = status })
}

func (r *UserRepository) UpdateUserPassword(_ context.Context, id int64, passwordHash string) error {
	return r.update(id, func(u *model.User) { u.PasswordHash = passwordHash })
}

func (r *UserRepository) DeleteUser(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
