package services

import (
	"context"
	"time"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"github.com/Priyan2307/ShopBuddy_Server/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatService handles per-pair conversations. Sending requires an existing
// buddy connection; reading history does not, so removed buddies keep their
// old messages.
type ChatService struct {
	profiles      repository.ProfileStore
	connections   repository.ConnectionStore
	conversations repository.ConversationStore
	locks         *PairLocks
}

// NewChatService wires the conversation flow over its stores. Passing the
// same lock table as the buddy service keeps a message send from racing a
// buddy removal on the same pair.
func NewChatService(profiles repository.ProfileStore, connections repository.ConnectionStore, conversations repository.ConversationStore, locks *PairLocks) *ChatService {
	return &ChatService{
		profiles:      profiles,
		connections:   connections,
		conversations: conversations,
		locks:         locks,
	}
}

// SendMessage appends a new unread message to the pair's conversation.
func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, body string) (*models.Message, error) {
	key := models.PairKey(senderID, receiverID)

	unlock := s.locks.Lock(key)
	defer unlock()

	connected, err := s.connections.AreConnected(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrNotConnected
	}

	msg := &models.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		Read:       false,
		CreatedAt:  time.Now(),
	}

	if err := s.conversations.AppendMessage(ctx, key, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetHistory returns the full conversation in append order, whichever way
// round the two ids are passed.
func (s *ChatService) GetHistory(ctx context.Context, userID, otherID primitive.ObjectID) ([]models.Message, error) {
	conv, err := s.conversations.GetConversation(ctx, models.PairKey(userID, otherID))
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return []models.Message{}, nil
	}
	return conv.Messages, nil
}

// MarkRead flags every message addressed to userID in this conversation as
// read. Idempotent.
func (s *ChatService) MarkRead(ctx context.Context, userID, otherID primitive.ObjectID) error {
	key := models.PairKey(userID, otherID)

	unlock := s.locks.Lock(key)
	defer unlock()

	return s.conversations.MarkRead(ctx, key, userID)
}

// UnreadCount counts the unread messages addressed to userID.
func (s *ChatService) UnreadCount(ctx context.Context, userID, otherID primitive.ObjectID) (int, error) {
	conv, err := s.conversations.GetConversation(ctx, models.PairKey(userID, otherID))
	if err != nil {
		return 0, err
	}
	if conv == nil {
		return 0, nil
	}

	count := 0
	for _, msg := range conv.Messages {
		if msg.ReceiverID == userID && !msg.Read {
			count++
		}
	}
	return count, nil
}

// LastMessage returns the newest message of the conversation, or nil.
func (s *ChatService) LastMessage(ctx context.Context, userID, otherID primitive.ObjectID) (*models.Message, error) {
	conv, err := s.conversations.GetConversation(ctx, models.PairKey(userID, otherID))
	if err != nil {
		return nil, err
	}
	if conv == nil || len(conv.Messages) == 0 {
		return nil, nil
	}
	last := conv.Messages[len(conv.Messages)-1]
	return &last, nil
}

// ChatOverview is one row of the conversation list screen.
type ChatOverview struct {
	Buddy       models.PublicProfile `json:"buddy"`
	LastMessage *models.Message      `json:"last_message,omitempty"`
	UnreadCount int                  `json:"unread_count"`
}

// GetOverview lists the caller's connected buddies with the last message and
// unread count of each conversation.
func (s *ChatService) GetOverview(ctx context.Context, userID primitive.ObjectID) ([]ChatOverview, error) {
	neighbors, err := s.connections.Neighbors(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return []ChatOverview{}, nil
	}

	profiles, err := s.profiles.GetProfilesByIDs(ctx, neighbors)
	if err != nil {
		return nil, err
	}

	overview := make([]ChatOverview, 0, len(profiles))
	for i := range profiles {
		buddy := profiles[i]

		conv, err := s.conversations.GetConversation(ctx, models.PairKey(userID, buddy.ID))
		if err != nil {
			return nil, err
		}

		row := ChatOverview{Buddy: buddy.Public()}
		if conv != nil && len(conv.Messages) > 0 {
			last := conv.Messages[len(conv.Messages)-1]
			row.LastMessage = &last
			for _, msg := range conv.Messages {
				if msg.ReceiverID == userID && !msg.Read {
					row.UnreadCount++
				}
			}
		}
		overview = append(overview, row)
	}

	return overview, nil
}
