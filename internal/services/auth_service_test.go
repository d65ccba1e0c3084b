package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"homemart/internal/config"
	"homemart/internal/database"
	"homemart/internal/models"
	"homemart/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(t *testing.T, repo *MockUserRepository) *services.AuthService {
	return services.NewAuthService(repo, config.AuthConfig{JWTSecret: testJWTSecret, TokenTTL: time.Hour}, zaptest.NewLogger(t))
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo)

	user := &models.User{Username: "cajero", Email: "cajero@example.com", Password: "password123"}
	notFound := fmt.Errorf("user: %w", database.ErrUserNotFound)

	mockRepo.On("GetByUsername", ctx, "cajero").Return(nil, notFound).Once()
	mockRepo.On("GetByEmail", ctx, "cajero@example.com").Return(nil, notFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")), "password must be stored hashed")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUserConflicts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo)
	notFound := fmt.Errorf("user: %w", database.ErrUserNotFound)

	mockRepo.On("GetByUsername", ctx, "taken").Return(&models.User{Username: "taken"}, nil).Once()
	err := authService.RegisterUser(ctx, &models.User{Username: "taken", Email: "a@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, services.ErrUsernameTaken)

	mockRepo.On("GetByUsername", ctx, "fresh").Return(nil, notFound).Once()
	mockRepo.On("GetByEmail", ctx, "used@example.com").Return(&models.User{Email: "used@example.com"}, nil).Once()
	err = authService.RegisterUser(ctx, &models.User{Username: "fresh", Email: "used@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: "u-1", Username: "cajero", Password: string(hashed)}
	mockRepo.On("GetByUsername", ctx, "cajero").Return(stored, nil)
	mockRepo.On("GetByUsername", ctx, "ghost").Return(nil, fmt.Errorf("user ghost: %w", database.ErrUserNotFound))

	token, err := authService.LoginUser(ctx, "cajero", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims["user_id"])
	assert.Equal(t, "cajero", claims["username"])

	_, err = authService.LoginUser(ctx, "cajero", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = authService.LoginUser(ctx, "ghost", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_ValidateTokenRejects(t *testing.T) {
	authService := newAuthService(t, new(MockUserRepository))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u-1"})
	foreignString, err := foreign.SignedString([]byte("another_secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expiredString,
		"wrong secret": foreignString,
		"not a jwt":    "garbage",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := authService.ValidateToken(token)
			assert.ErrorIs(t, err, services.ErrInvalidToken)
		})
	}
}
