package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// Publisher sends verdict events to Kafka. Publication is fire-and-forget
// from the orchestrator's point of view; a broker outage degrades the audit
// trail, never the assessment.
type Publisher struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewPublisher connects to the brokers and ensures the verdict topic exists.
// Returns nil when no brokers are configured.
func NewPublisher(ctx context.Context, brokers []string, logger *slog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client); err != nil {
		client.Close()
		return nil, err
	}
	return &Publisher{client: client, logger: logger}, nil
}

// ensureTopic creates the verdict topic when it does not exist yet, so a
// fresh environment works without manual broker setup.
func ensureTopic(ctx context.Context, client *kgo.Client) error {
	admin := kadm.NewClient(client)
	topics, err := admin.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("list kafka topics: %w", err)
	}
	if topics.Has(VerdictTopic) {
		return nil
	}
	if _, err := admin.CreateTopic(ctx, 3, 1, nil, VerdictTopic); err != nil {
		return fmt.Errorf("create topic %s: %w", VerdictTopic, err)
	}
	return nil
}

// PublishAssessment produces one verdict event, keyed by entity name so a
// consumer sees one entity's verdicts in order.
func (p *Publisher) PublishAssessment(ctx context.Context, a *domain.Assessment) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(FromAssessment(a))
	if err != nil {
		return fmt.Errorf("encode verdict event: %w", err)
	}

	record := &kgo.Record{
		Topic: VerdictTopic,
		Key:   []byte(a.Entity.Name),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil && p.logger != nil {
			p.logger.Error("verdict event delivery failed",
				"assessment_id", a.ID.String(), "error", err)
		}
	})
	return nil
}

// Close flushes buffered records and releases the client.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Close()
}
