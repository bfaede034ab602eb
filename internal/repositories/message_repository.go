package repositories

import "warbler/internal/models"

// MessageRepository defines the interface for message and like data access.
type MessageRepository interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	Delete(id uint) error
	ListByUser(userID uint, limit int) ([]models.Message, error)
	ListByUsers(userIDs []uint, limit int) ([]models.Message, error)

	Like(userID, messageID uint) error
	Unlike(userID, messageID uint) error
	IsLiked(userID, messageID uint) (bool, error)
	LikedBy(userID uint) ([]models.Message, error)
}
