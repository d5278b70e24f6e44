package notification

import (
	"context"
	"fmt"
	"time"

	"ghostinbox-backend/internal/ingest/usecase"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Subscriber pulls mailbox change notifications from Pub/Sub and feeds them
// to the ingestion orchestrator. It is the pull-side twin of the push
// webhook; both paths converge on Orchestrator.Process.
type Subscriber struct {
	client       *pubsub.Client
	orchestrator *usecase.Orchestrator
	topicName    string
	subName      string
	log          zerolog.Logger
}

func NewSubscriber(projectID, topicName, credentialsFile string, orchestrator *usecase.Orchestrator, log zerolog.Logger) (*Subscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(context.Background(), projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &Subscriber{
		client:       client,
		orchestrator: orchestrator,
		topicName:    topicName,
		subName:      topicName + "-sub",
		log:          log,
	}, nil
}

// Start blocks receiving messages until the context is cancelled. The
// subscription is created against the configured topic when missing.
func (s *Subscriber) Start(ctx context.Context) {
	sub, err := s.ensureSubscription(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("subscription", s.subName).Msg("subscription unavailable, subscriber not started")
		return
	}

	s.log.Info().Str("subscription", s.subName).Msg("listening for notifications")
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		summary, err := s.orchestrator.Process(ctx, msg.Data)
		if err != nil {
			// Nack so the delivery retries; the cursor ledger keeps a
			// redelivery of already-dispatched work from running twice.
			s.log.Error().Err(err).Msg("notification processing failed, nacking")
			msg.Nack()
			return
		}
		s.log.Info().Str("history_id", summary.HistoryID).Int("processed", summary.ProcessedCount).
			Int("failed", summary.ErrorCount).Bool("skipped", summary.Skipped).Msg("notification handled")
		msg.Ack()
	})
	if err != nil && ctx.Err() == nil {
		s.log.Error().Err(err).Msg("receive loop stopped")
	}
}

func (s *Subscriber) ensureSubscription(ctx context.Context) (*pubsub.Subscription, error) {
	sub := s.client.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if exists {
		return sub, nil
	}

	topic := s.client.Topic(s.topicName)
	topicExists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic: %w", err)
	}
	if !topicExists {
		return nil, fmt.Errorf("topic %s does not exist", s.topicName)
	}

	sub, err = s.client.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	s.log.Info().Str("subscription", s.subName).Msg("subscription created")
	return sub, nil
}
