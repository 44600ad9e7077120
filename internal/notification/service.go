// internal/notification/service.go
// In-app notification dispatch. Persisting the row is the contract; the
// redis publish is a best-effort hint to whatever real-time gateway is
// listening, and its delivery guarantees are not this service's problem.

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// Service is the notification dispatcher boundary
type Service interface {
	Notify(ctx context.Context, userID int64, content, url string, notifType string) error
	GetNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

type service struct {
	repo          Repository
	redis         *redis.Client // nil disables publishing
	channelPrefix string
}

// NewService creates the notification service. Pass a nil redis client to
// run without real-time publishing.
func NewService(repo Repository, redisClient *redis.Client, channelPrefix string) Service {
	if channelPrefix == "" {
		channelPrefix = "notifications"
	}
	return &service{
		repo:          repo,
		redis:         redisClient,
		channelPrefix: channelPrefix,
	}
}

// Notify persists the notification and publishes it to the user's channel
func (s *service) Notify(ctx context.Context, userID int64, content, url string, notifType string) error {
	n := &Notification{
		UserID:  userID,
		Type:    notifType,
		Content: content,
		URL:     url,
	}

	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return err
	}

	s.publish(ctx, n)

	return nil
}

// publish is best-effort; a failed publish only costs the real-time hint
func (s *service) publish(ctx context.Context, n *Notification) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("notification: failed to marshal notification %d: %v", n.ID, err)
		return
	}

	channel := fmt.Sprintf("%s:%d", s.channelPrefix, n.UserID)
	if err := s.redis.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("notification: failed to publish to %s: %v", channel, err)
	}
}

func (s *service) GetNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetUserNotifications(ctx, userID, limit, offset, unreadOnly)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	// Marking an already-read or missing notification is a no-op
	_, err := s.repo.MarkAsRead(ctx, notificationID, userID)
	return err
}

func (s *service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *service) CountUnread(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
