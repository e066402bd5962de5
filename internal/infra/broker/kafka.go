package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
)

// Message is the JSON body published for every appointment event.
type Message struct {
	EventID    string     `json:"event_id"`
	EventType  string     `json:"event_type"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	EmployeeID uuid.UUID  `json:"employee_id"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
	Data       any        `json:"data,omitempty"`
}

// Publisher is the audit Sink that forwards events to kafka. Messages are
// keyed by tenant and employee so one calendar stays ordered in a partition.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Publisher) Write(ctx context.Context, ev audit.Event) error {
	msg, err := encode(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encode(ev audit.Event) (kafka.Message, error) {
	eventID := uuid.NewString()
	body, err := json.Marshal(Message{
		EventID:    eventID,
		EventType:  ev.Action,
		TenantID:   ev.TenantID,
		EmployeeID: ev.EmployeeID,
		EntityID:   ev.EntityID,
		ActorID:    ev.ActorID,
		OccurredAt: ev.OccurredAt,
		Data:       ev.Metadata,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(ev.TenantID.String() + ":" + ev.EmployeeID.String()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(eventID)},
			{Key: "event_type", Value: []byte(ev.Action)},
		},
	}, nil
}
