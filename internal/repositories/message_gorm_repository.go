package repositories

import (
	"fmt"

	"warbler/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMMessageRepository is a GORM implementation of MessageRepository.
type GORMMessageRepository struct {
	db *gorm.DB
}

// NewGORMMessageRepository creates a new instance of GORMMessageRepository.
func NewGORMMessageRepository(db *gorm.DB) *GORMMessageRepository {
	return &GORMMessageRepository{
		db: db,
	}
}

// Create inserts a message. The text length is enforced by the schema.
func (r *GORMMessageRepository) Create(message *models.Message) error {
	if err := r.db.Omit(clause.Associations).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", classify(err))
	}
	return nil
}

// GetByID retrieves a message and its author.
func (r *GORMMessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("User").First(&message, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get message by ID %d: %w", id, classify(err))
	}
	return &message, nil
}

// Delete removes a message and the likes pointing at it.
func (r *GORMMessageRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Message{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %d: %w", id, classify(err))
	}
	return nil
}

// ListByUser returns a user's messages, newest first.
func (r *GORMMessageRepository) ListByUser(userID uint, limit int) ([]models.Message, error) {
	return r.ListByUsers([]uint{userID}, limit)
}

// ListByUsers returns messages authored by any of userIDs, newest first.
func (r *GORMMessageRepository) ListByUsers(userIDs []uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	if len(userIDs) == 0 {
		return messages, nil
	}
	err := r.db.Preload("User").
		Where("user_id IN ?", userIDs).
		Order("messages.timestamp DESC").
		Order("messages.id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", classify(err))
	}
	return messages, nil
}

// Like records that userID likes messageID. Liking twice is a no-op.
func (r *GORMMessageRepository) Like(userID, messageID uint) error {
	like := models.Like{UserID: userID, MessageID: messageID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		return fmt.Errorf("failed to like message %d: %w", messageID, classify(err))
	}
	return nil
}

// Unlike removes a like if present.
func (r *GORMMessageRepository) Unlike(userID, messageID uint) error {
	err := r.db.Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&models.Like{}).Error
	if err != nil {
		return fmt.Errorf("failed to unlike message %d: %w", messageID, classify(err))
	}
	return nil
}

// IsLiked reports whether userID likes messageID.
func (r *GORMMessageRepository) IsLiked(userID, messageID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", classify(err))
	}
	return count > 0, nil
}

// LikedBy lists the messages userID likes, newest first.
func (r *GORMMessageRepository) LikedBy(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("messages.timestamp DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list likes for user %d: %w", userID, classify(err))
	}
	return messages, nil
}
