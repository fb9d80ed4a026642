package user

import (
	"context"
	"sync"
)

// StubRepo is an in-memory Repo for tests.
type StubRepo struct {
	mu     sync.RWMutex
	users  map[int]User
	nextID int
}

func NewStubRepo() *StubRepo {
	return &StubRepo{users: make(map[int]User), nextID: 1}
}

func (r *StubRepo) CreateUser(_ context.Context, user User) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *StubRepo) GetUser(_ context.Context, id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *StubRepo) GetUserByUsername(_ context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (r *StubRepo) GetAllUsers(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}
