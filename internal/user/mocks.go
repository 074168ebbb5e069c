package user

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u *User, p *UserProfile) error {
	args := m.Called(ctx, u, p)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FirstProfile(ctx context.Context, userID uint) (*UserProfile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*UserProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) SaveProfile(ctx context.Context, p *UserProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockUserRepository) CreateAnonymousUser(ctx context.Context) (*AnonymousUser, error) {
	args := m.Called(ctx)
	if a, ok := args.Get(0).(*AnonymousUser); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, filter ListFilter) ([]User, error) {
	args := m.Called(ctx, filter)
	if users, ok := args.Get(0).([]User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(ctx context.Context, purpose string, userID uint) (string, error) {
	args := m.Called(ctx, purpose, userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(ctx context.Context, purpose string, userID uint, token string) (bool, error) {
	args := m.Called(ctx, purpose, userID, token)
	return args.Bool(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
