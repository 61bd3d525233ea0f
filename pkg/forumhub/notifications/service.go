package notifications

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/forumhub/forumhub/pkg/forumhub/models"
	"gorm.io/gorm"
)

const (
	defaultQueueSize   = 256
	defaultMaxAttempts = 3
	defaultBackoff     = 100 * time.Millisecond
)

type task struct {
	userID  uint
	kind    models.NotificationType
	message string
	postID  *uint
}

// Service appends per-user notification records off the request path.
// Callers enqueue after their primary mutation has committed; a failed
// delivery never fails the triggering action. Deliveries that exhaust their
// retries are recorded in notification_dead_letters so failures stay
// observable.
type Service struct {
	db          *gorm.DB
	queue       chan task
	wg          sync.WaitGroup
	startOnce   sync.Once
	closeOnce   sync.Once
	maxAttempts int
	backoff     time.Duration
}

// NewService creates a notification service. Call Start before enqueueing.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:          db,
		queue:       make(chan task, defaultQueueSize),
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
}

// Start launches the delivery worker.
func (s *Service) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Enqueue schedules a notification for userID. It never blocks the caller:
// if the queue is full the task is dead-lettered immediately.
func (s *Service) Enqueue(userID uint, kind models.NotificationType, message string, postID *uint) {
	t := task{userID: userID, kind: kind, message: message, postID: postID}
	s.wg.Add(1)
	select {
	case s.queue <- t:
	default:
		log.Printf("notification queue full, dead-lettering notification for user %d", userID)
		s.deadLetter(t, 0, "queue full")
		s.wg.Done()
	}
}

// Flush blocks until every enqueued notification has been processed.
func (s *Service) Flush() {
	s.wg.Wait()
}

// Close drains the queue and stops the worker.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.wg.Wait()
		close(s.queue)
	})
}

func (s *Service) run() {
	for t := range s.queue {
		s.deliver(t)
		s.wg.Done()
	}
}

func (s *Service) deliver(t task) {
	// A missing target user is logged and dropped: not retryable, not a
	// dead-letter candidate.
	var user models.User
	if err := s.db.First(&user, t.userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("notification target user %d not found, dropping", t.userID)
			return
		}
		// Fall through to the retry loop on transient lookup errors.
	}

	notification, err := models.NewNotification(t.userID, t.kind, t.message, t.postID)
	if err != nil {
		log.Printf("invalid notification for user %d: %v", t.userID, err)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := s.db.Create(notification).Error; err != nil {
			lastErr = err
			time.Sleep(s.backoff * time.Duration(attempt))
			continue
		}
		return
	}

	log.Printf("failed to persist notification for user %d after %d attempts: %v", t.userID, s.maxAttempts, lastErr)
	s.deadLetter(t, s.maxAttempts, lastErr.Error())
}

func (s *Service) deadLetter(t task, attempts int, reason string) {
	entry := models.NotificationDeadLetter{
		UserID:    t.userID,
		Type:      t.kind,
		Message:   t.message,
		PostID:    t.postID,
		Attempts:  attempts,
		LastError: reason,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("failed to record notification dead letter for user %d: %v", t.userID, err)
	}
}
