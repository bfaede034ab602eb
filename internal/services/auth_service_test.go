package services_test

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"warbler/internal/models"
	"warbler/internal/repositories"
	"warbler/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// TestMain silences logging during tests.
func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthService_Signup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, publisher)

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = 1
	}).Return(nil).Once()
	publisher.On("PublishEvent", services.EventUserSignedUp, mock.Anything).Return(nil).Once()

	user, err := authService.Signup("valid_test_user", "test@test.com", "TestPassword", "")
	require.NoError(t, err)
	assert.Equal(t, "valid_test_user", user.Username)
	assert.NotEqual(t, "TestPassword", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$2a$"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("TestPassword")))
	assert.Equal(t, models.DefaultImageURL, user.ImageURL)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAuthService_SignupInvalidPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, nil)

	_, err := authService.Signup("valid_test_user", "test2@test.com", "", "")
	assert.ErrorIs(t, err, services.ErrInvalidPassword)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_SignupPasswordTooLong(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, nil)

	_, err := authService.Signup("valid_test_user", "test2@test.com", strings.Repeat("p", 73), "")
	assert.ErrorIs(t, err, services.ErrInvalidPassword)
	assert.NotContains(t, err.Error(), "failed to hash")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	_, err = authService.Signup("valid_test_user", "test2@test.com", strings.Repeat("p", 72), "")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignupIntegrityError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, publisher)

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("failed to create user: %w", repositories.ErrIntegrity)).Once()

	_, err := authService.Signup("", "test2@test.com", "TestPassword", "")
	assert.ErrorIs(t, err, repositories.ErrIntegrity)
	publisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignupPublishFailureIsIgnored(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, publisher)

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	publisher.On("PublishEvent", services.EventUserSignedUp, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := authService.Signup("valid_test_user", "test@test.com", "TestPassword", "/me.png")
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("TestPassword"), bcrypt.MinCost)
	user := &models.User{ID: 1, Username: "valid_test_user", Email: "test@test.com", Password: string(hashedPassword)}

	// valid credentials
	mockRepo.On("GetByUsername", "valid_test_user").Return(user, nil).Once()
	got, ok, err := authService.Authenticate("valid_test_user", "TestPassword")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, user, got)

	// wrong password
	mockRepo.On("GetByUsername", "valid_test_user").Return(user, nil).Once()
	got, ok, err = authService.Authenticate("valid_test_user", "NotTestPassword")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	// unknown user
	mockRepo.On("GetByUsername", "invalid_test_user").
		Return(nil, fmt.Errorf("failed to get user: %w", repositories.ErrNotFound)).Once()
	got, ok, err = authService.Authenticate("invalid_test_user", "TestPassword")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	// storage failure surfaces as an error
	mockRepo.On("GetByUsername", "valid_test_user").Return(nil, errors.New("connection refused")).Once()
	_, ok, err = authService.Authenticate("valid_test_user", "TestPassword")
	assert.Error(t, err)
	assert.False(t, ok)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_IssueAndValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, nil)

	token, err := authService.IssueToken(&models.User{ID: 42, Username: "testuser"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", claims["username"])

	id, err := authService.UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	other := services.NewAuthService(mockRepo, "another_secret", time.Hour, nil)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour, nil)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  1,
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))

	_, err := authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	noID := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	noIDString, _ := noID.SignedString([]byte(testJWTSecret))
	_, err = authService.UserIDFromToken(noIDString)
	assert.Error(t, err)
}
