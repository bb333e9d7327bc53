package services_test

import (
	"fmt"
	"testing"
	"time"

	"sepatu/internal/models"
	"sepatu/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockAdminRepository is a mock implementation of repositories.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(admin *models.Admin) error {
	args := m.Called(admin)
	return args.Error(0)
}

func (m *MockAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) GetByEmail(email string) (*models.Admin, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) GetByID(id string) (*models.Admin, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	mockRepo := new(MockAdminRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	admin := &models.Admin{
		Username: "storeadmin",
		Email:    "admin@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", admin.Username).Return(nil, fmt.Errorf("admin not found")).Once()
	mockRepo.On("GetByEmail", admin.Email).Return(nil, fmt.Errorf("admin not found")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Admin")).Return(nil).Once()

	err := authService.RegisterAdmin(admin)
	assert.NoError(t, err)
	// The stored password is a bcrypt hash, the default role is assigned and
	// the account starts active.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("password123")))
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterAdmin_DuplicateUsername(t *testing.T) {
	mockRepo := new(MockAdminRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	existing := &models.Admin{Username: "storeadmin"}
	mockRepo.On("GetByUsername", "storeadmin").Return(existing, nil).Once()

	err := authService.RegisterAdmin(&models.Admin{
		Username: "storeadmin",
		Email:    "new@example.com",
		Password: "password123",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginAdmin(t *testing.T) {
	mockRepo := new(MockAdminRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := &models.Admin{
		ID:       "admin-1",
		Username: "storeadmin",
		Email:    "admin@example.com",
		Password: string(hashed),
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	mockRepo.On("GetByUsername", "storeadmin").Return(admin, nil).Once()
	token, err := authService.LoginAdmin("storeadmin", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims["admin_id"])
	assert.Equal(t, models.RoleAdmin, claims["role"])

	// Wrong password is rejected without leaking which part failed.
	mockRepo.On("GetByUsername", "storeadmin").Return(admin, nil).Once()
	_, err = authService.LoginAdmin("storeadmin", "wrong")
	assert.EqualError(t, err, "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginAdmin_InactiveAccount(t *testing.T) {
	mockRepo := new(MockAdminRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	admin := &models.Admin{Username: "storeadmin", Password: string(hashed), IsActive: false}

	mockRepo.On("GetByUsername", "storeadmin").Return(admin, nil).Once()
	_, err := authService.LoginAdmin("storeadmin", "password123")
	assert.EqualError(t, err, "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UserToken(t *testing.T) {
	mockRepo := new(MockAdminRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	token, err := authService.IssueUserToken("linh@example.com")
	require.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "linh@example.com", claims["email"])
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	mockRepo := new(MockAdminRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	// Garbage token.
	_, err := authService.ValidateToken("not-a-token")
	assert.Error(t, err)

	// Token signed with a different secret.
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "linh@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	foreign, err := other.SignedString([]byte("another_secret"))
	require.NoError(t, err)
	_, err = authService.ValidateToken(foreign)
	assert.Error(t, err)

	// Expired token.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "linh@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	stale, err := expired.SignedString([]byte("test_jwt_secret"))
	require.NoError(t, err)
	_, err = authService.ValidateToken(stale)
	assert.Error(t, err)
}
