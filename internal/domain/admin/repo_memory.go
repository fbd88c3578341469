package admin

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type userRepoMemory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

// NewMemoryUserRepo returns a repository holding the default staff
// directory.
func NewMemoryUserRepo() UserRepository {
	r := &userRepoMemory{users: make(map[uuid.UUID]*User)}
	for _, u := range seedUsers() {
		_ = r.Create(context.Background(), u)
	}
	return r
}

func (r *userRepoMemory) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(user.Email, uuid.Nil) {
		return ErrDuplicateEmail
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// emailTaken reports whether a user other than self has email. Callers
// hold r.mu.
func (r *userRepoMemory) emailTaken(email string, self uuid.UUID) bool {
	for id, u := range r.users {
		if id != self && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepoMemory) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepoMemory) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return ErrDuplicateEmail
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *userRepoMemory) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *userRepoMemory) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	r.mu.RLock()
	all := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		all = append(all, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := len(all)
	if offset >= total {
		return []*User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}
