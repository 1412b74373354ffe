package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/metrics"
	"github.com/bagdasarian/collabquest-assistant/internal/repository"
)

const (
	notifyConcurrency = 4
	notifyTimeout     = 5 * time.Second
)

type notificationService struct {
	repo          repository.NotificationRepository
	publisher     Publisher
	subjectPrefix string
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewNotificationService создает Notifier. publisher может быть nil:
// тогда уведомления только сохраняются.
func NewNotificationService(
	repo repository.NotificationRepository,
	publisher Publisher,
	subjectPrefix string,
	m *metrics.Metrics,
	logger *zap.Logger,
) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &notificationService{
		repo:          repo,
		publisher:     publisher,
		subjectPrefix: subjectPrefix,
		metrics:       m,
		logger:        logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, notifications []*domain.Notification) {
	if len(notifications) == 0 {
		return
	}

	// уведомления отправляются после коммита, отмена запроса их не отменяет
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(notifyConcurrency)
	for _, n := range notifications {
		g.Go(func() error {
			err := s.deliver(gctx, n)
			s.metrics.ObserveNotification(string(n.Type), err)
			if err != nil {
				s.logger.Warn("failed to deliver notification",
					zap.String("recipient_id", n.RecipientID),
					zap.String("type", string(n.Type)),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *notificationService) deliver(ctx context.Context, n *domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.publisher == nil {
		return nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.publisher.Publish(s.subjectPrefix+"."+n.RecipientID, payload)
}
