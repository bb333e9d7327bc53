package services

import (
	"fmt"
	"log"
	"time"

	"sepatu/internal/models"
	"sepatu/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles back-office authentication and token validation for
// both admin and end-user scoped endpoints.
type AuthService struct {
	adminRepo  repositories.AdminRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterAdmin registers a new admin account with a bcrypt-hashed password.
func (s *AuthService) RegisterAdmin(admin *models.Admin) error {
	if existing, err := s.adminRepo.GetByUsername(admin.Username); err == nil && existing != nil {
		return fmt.Errorf("username '%s' already taken", admin.Username)
	}
	if existing, err := s.adminRepo.GetByEmail(admin.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered", admin.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.Password = string(hashedPassword)
	if admin.Role == "" {
		admin.Role = models.RoleAdmin
	}
	admin.IsActive = true

	if err := s.adminRepo.Create(admin); err != nil {
		return fmt.Errorf("failed to register admin: %w", err)
	}
	return nil
}

// LoginAdmin authenticates an admin and returns a JWT token if successful.
func (s *AuthService) LoginAdmin(username, password string) (string, error) {
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", fmt.Errorf("invalid credentials")
	}
	if !admin.IsActive {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": admin.ID,
		"username": admin.Username,
		"email":    admin.Email,
		"role":     admin.Role,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// IssueUserToken issues a token carrying a verified customer email, used by
// the user-scoped order endpoints.
func (s *AuthService) IssueUserToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(s.tokenDurat).Unix(),
		"iat":   time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
