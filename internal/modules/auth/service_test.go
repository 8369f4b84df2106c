package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"equipreg/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Login_Success(t *testing.T) {
	users := new(mockUserRepo)
	jwtSvc := new(mockJWTService)

	admin := &domain.User{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hashed(t, "admin123"),
		Role:         domain.RoleAdmin,
	}
	users.On("GetByEmail", mock.Anything, "admin@example.com").Return(admin, nil)
	jwtSvc.On("GenerateToken", int64(1), "ADMIN").Return("fake-jwt-token", nil)

	svc := NewService(users, jwtSvc)
	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "admin123",
	})

	require.NoError(t, err)
	assert.Equal(t, "fake-jwt-token", result.Token)
	assert.Equal(t, admin, result.User)
	users.AssertExpectations(t)
	jwtSvc.AssertExpectations(t)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	jwtSvc := new(mockJWTService)

	users.On("GetByEmail", mock.Anything, "admin@example.com").Return(&domain.User{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hashed(t, "admin123"),
		Role:         domain.RoleAdmin,
	}, nil)

	svc := NewService(users, jwtSvc)
	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	jwtSvc.AssertNotCalled(t, "GenerateToken")
}

func TestService_Login_UnknownEmail(t *testing.T) {
	users := new(mockUserRepo)
	jwtSvc := new(mockJWTService)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(users, jwtSvc)
	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_CurrentUser_RequiresID(t *testing.T) {
	svc := NewService(new(mockUserRepo), new(mockJWTService))
	_, err := svc.CurrentUser(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
