package services

import (
	"fmt"

	"warbler/internal/models"
	"warbler/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// ProfileUpdate carries the editable profile fields. Empty fields keep
// their current value.
type ProfileUpdate struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// UserService handles profiles and the follow graph.
type UserService struct {
	userRepo  repositories.UserRepository
	publisher EventPublisher
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(userRepo repositories.UserRepository, publisher EventPublisher) *UserService {
	return &UserService{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserWithGraph retrieves a user with Following and Followers loaded.
func (s *UserService) GetUserWithGraph(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user.Following, err = s.userRepo.Following(id); err != nil {
		return nil, err
	}
	if user.Followers, err = s.userRepo.Followers(id); err != nil {
		return nil, err
	}
	return user, nil
}

// Search lists users whose username contains query.
func (s *UserService) Search(query string) ([]models.User, error) {
	return s.userRepo.Search(query)
}

// Following lists the users userID follows.
func (s *UserService) Following(userID uint) ([]models.User, error) {
	return s.userRepo.Following(userID)
}

// Followers lists the users following userID.
func (s *UserService) Followers(userID uint) ([]models.User, error) {
	return s.userRepo.Followers(userID)
}

// IsFollowing reports whether userID follows otherID.
func (s *UserService) IsFollowing(userID, otherID uint) (bool, error) {
	return s.userRepo.IsFollowing(userID, otherID)
}

// IsFollowedBy reports whether otherID follows userID.
func (s *UserService) IsFollowedBy(userID, otherID uint) (bool, error) {
	return s.userRepo.IsFollowing(otherID, userID)
}

// Follow makes followerID follow followedID.
func (s *UserService) Follow(followerID, followedID uint) error {
	if followerID == followedID {
		return fmt.Errorf("users cannot follow themselves: %w", ErrForbidden)
	}
	if _, err := s.userRepo.GetByID(followedID); err != nil {
		return err
	}
	if err := s.userRepo.Follow(followerID, followedID); err != nil {
		return err
	}

	publish(s.publisher, EventUserFollowed, map[string]interface{}{
		"follower_id": followerID,
		"followed_id": followedID,
	})
	return nil
}

// StopFollowing removes the edge followerID -> followedID.
func (s *UserService) StopFollowing(followerID, followedID uint) error {
	if _, err := s.userRepo.GetByID(followedID); err != nil {
		return err
	}
	if err := s.userRepo.Unfollow(followerID, followedID); err != nil {
		return err
	}

	publish(s.publisher, EventUserUnfollowed, map[string]interface{}{
		"follower_id": followerID,
		"followed_id": followedID,
	})
	return nil
}

// UpdateProfile applies update after re-checking the user's password.
func (s *UserService) UpdateProfile(userID uint, password string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("wrong password: %w", ErrForbidden)
	}

	if update.Username != "" {
		user.Username = update.Username
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.ImageURL != "" {
		user.ImageURL = update.ImageURL
	}
	if update.HeaderImageURL != "" {
		user.HeaderImageURL = update.HeaderImageURL
	}
	if update.Bio != "" {
		user.Bio = update.Bio
	}
	if update.Location != "" {
		user.Location = update.Location
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account and everything it owns.
func (s *UserService) Delete(userID uint) error {
	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}
	publish(s.publisher, EventUserDeleted, map[string]interface{}{"user_id": userID})
	return nil
}
