package services

import (
	"errors"
	"fmt"
	"time"

	"warbler/internal/models"
	"warbler/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long an API token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// AuthService handles signup, credential checks and API tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	publisher  EventPublisher
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService. publisher may be nil.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, publisher EventPublisher) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:   userRepo,
		publisher:  publisher,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
	}
}

// Signup hashes the password and persists a new user. An empty password
// or one bcrypt cannot hash fails before storage is touched; missing or duplicate username/email
// fail with repositories.ErrIntegrity from the storage layer.
func (s *AuthService) Signup(username, email, password, imageURL string) (*models.User, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: must not be empty", ErrInvalidPassword)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: longer than 72 bytes", ErrInvalidPassword)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}
	user := &models.User{
		Username:       username,
		Email:          email,
		Password:       string(hashedPassword),
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to sign up user: %w", err)
	}

	publish(s.publisher, EventUserSignedUp, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

// Authenticate returns the user when username and password match. An
// unknown username and a wrong password both yield (nil, false, nil); the
// error is reserved for storage failures.
func (s *AuthService) Authenticate(username, password string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, false, nil
	}
	return user, true, nil
}

// IssueToken signs a JWT identifying user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
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
		logrus.WithError(err).Debug("Token validation failed")
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// UserIDFromToken validates tokenString and extracts the user id claim.
func (s *AuthService) UserIDFromToken(tokenString string) (uint, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}
	// JSON numbers decode as float64
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, fmt.Errorf("invalid token: missing user_id")
	}
	return uint(id), nil
}
