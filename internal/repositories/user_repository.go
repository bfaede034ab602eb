package repositories

import "warbler/internal/models"

// UserRepository defines the interface for user and follow-graph data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Search(query string) ([]models.User, error)
	Update(user *models.User) error
	Delete(id uint) error

	Follow(followerID, followedID uint) error
	Unfollow(followerID, followedID uint) error
	IsFollowing(followerID, followedID uint) (bool, error)
	Following(userID uint) ([]models.User, error)
	Followers(userID uint) ([]models.User, error)
}
