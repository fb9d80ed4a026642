package test_utils

import (
	"context"

	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

// TestUserProvider satisfies user.Service with fixed users for tests.
type TestUserProvider struct{}

func (p TestUserProvider) GetCurrentUser(ctx context.Context) (user.User, error) {
	return user.CurrentUser(ctx)
}

func (p TestUserProvider) GetUser(_ context.Context, id int) (user.User, error) {
	return user.User{
		ID:        id,
		Username:  "test_user",
		FirstName: "Test",
		LastName:  "User",
		Role:      user.RoleStudent,
	}, nil
}

func (p TestUserProvider) GetAllUsers(_ context.Context) ([]user.User, error) {
	return []user.User{
		{ID: 1, Username: "admin", FirstName: "Alva", LastName: "Admin", Role: user.RoleAdmin},
		{ID: 2, Username: "teacher", FirstName: "Tomas", LastName: "Tell", Role: user.RoleTeacher},
		{ID: 3, Username: "student", FirstName: "Stina", LastName: "Strand", Role: user.RoleStudent},
	}, nil
}

func (p TestUserProvider) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	users, _ := p.GetAllUsers(ctx)
	for _, u := range users {
		if u.Username == username {
			return false, nil
		}
	}
	return true, nil
}
