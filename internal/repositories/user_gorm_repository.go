package repositories

import (
	"fmt"

	"warbler/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", classify(err))
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, classify(err))
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, classify(err))
	}
	return &user, nil
}

// Search lists users whose username contains query. An empty query lists everyone.
func (r *GORMUserRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	tx := r.db.Order("username")
	if query != "" {
		tx = tx.Where("username LIKE ?", "%"+query+"%")
	}
	if err := tx.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to search users: %w", classify(err))
	}
	return users, nil
}

// Update saves every column of an existing user. Unlike Save it never
// inserts a missing row.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Model(user).Select("*").Updates(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d not found for update: %w", user.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a user together with their likes, follow edges and messages.
func (r *GORMUserRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		messageIDs := tx.Model(&models.Message{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("user_id = ? OR message_id IN (?)", id, messageIDs).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_following_id = ? OR user_being_followed_id = ?", id, id).Delete(&models.Follows{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, classify(err))
	}
	return nil
}

// Follow records that followerID follows followedID. Following twice is a no-op.
func (r *GORMUserRepository) Follow(followerID, followedID uint) error {
	edge := models.Follows{UserBeingFollowedID: followedID, UserFollowingID: followerID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
		return fmt.Errorf("failed to follow user %d: %w", followedID, classify(err))
	}
	return nil
}

// Unfollow removes the follow edge if present.
func (r *GORMUserRepository) Unfollow(followerID, followedID uint) error {
	err := r.db.
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Delete(&models.Follows{}).Error
	if err != nil {
		return fmt.Errorf("failed to unfollow user %d: %w", followedID, classify(err))
	}
	return nil
}

// IsFollowing reports whether followerID follows followedID.
func (r *GORMUserRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follows{}).
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", classify(err))
	}
	return count > 0, nil
}

// Following lists the users userID follows.
func (r *GORMUserRepository) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.user_being_followed_id = users.id").
		Where("follows.user_following_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list following for user %d: %w", userID, classify(err))
	}
	return users, nil
}

// Followers lists the users following userID.
func (r *GORMUserRepository) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.user_following_id = users.id").
		Where("follows.user_being_followed_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list followers for user %d: %w", userID, classify(err))
	}
	return users, nil
}
