package services

import (
	"fmt"

	"warbler/internal/models"
	"warbler/internal/repositories"
)

// TimelineSize is the number of messages shown on a home timeline.
const TimelineSize = 100

// MessageService handles messages, likes and timelines.
type MessageService struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	publisher   EventPublisher
}

// NewMessageService creates a new MessageService. publisher may be nil.
func NewMessageService(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, publisher EventPublisher) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// CreateMessage stores text as a new message by userID. The length bound
// is enforced by storage, which returns repositories.ErrDataConstraint.
func (s *MessageService) CreateMessage(userID uint, text string) (*models.Message, error) {
	message := &models.Message{Text: text, UserID: userID}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	publish(s.publisher, EventMessageCreated, map[string]interface{}{
		"message_id": message.ID,
		"user_id":    userID,
	})
	return message, nil
}

// GetMessage retrieves a message with its author.
func (s *MessageService) GetMessage(id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(id)
}

// DeleteMessage removes a message owned by userID.
func (s *MessageService) DeleteMessage(userID, messageID uint) error {
	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		return err
	}
	if message.UserID != userID {
		return fmt.Errorf("message %d belongs to another user: %w", messageID, ErrForbidden)
	}
	if err := s.messageRepo.Delete(messageID); err != nil {
		return err
	}

	publish(s.publisher, EventMessageDeleted, map[string]interface{}{
		"message_id": messageID,
		"user_id":    userID,
	})
	return nil
}

// ToggleLike likes the message if userID has not yet, otherwise unlikes it.
// It returns whether the message is liked afterwards.
func (s *MessageService) ToggleLike(userID, messageID uint) (bool, error) {
	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		return false, err
	}
	if message.UserID == userID {
		return false, fmt.Errorf("users cannot like their own messages: %w", ErrForbidden)
	}

	liked, err := s.messageRepo.IsLiked(userID, messageID)
	if err != nil {
		return false, err
	}
	if liked {
		return false, s.messageRepo.Unlike(userID, messageID)
	}
	if err := s.messageRepo.Like(userID, messageID); err != nil {
		return false, err
	}

	publish(s.publisher, EventMessageLiked, map[string]interface{}{
		"message_id": messageID,
		"user_id":    userID,
	})
	return true, nil
}

// LikedBy lists the messages userID likes.
func (s *MessageService) LikedBy(userID uint) ([]models.Message, error) {
	return s.messageRepo.LikedBy(userID)
}

// ListByUser lists a user's own messages, newest first.
func (s *MessageService) ListByUser(userID uint) ([]models.Message, error) {
	return s.messageRepo.ListByUser(userID, TimelineSize)
}

// Timeline returns messages by userID and everyone they follow.
func (s *MessageService) Timeline(userID uint) ([]models.Message, error) {
	following, err := s.userRepo.Following(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(following)+1)
	ids = append(ids, userID)
	for _, u := range following {
		ids = append(ids, u.ID)
	}
	return s.messageRepo.ListByUsers(ids, TimelineSize)
}
