package dbmongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatflow/internal/common"
)

// EventLog is the append-only durable record of pipeline events. It backs
// audit and replay; nothing in the live path ever reads from it.
type EventLog struct {
	collection *mongo.Collection
}

func NewEventLog(mc *MongoClient, collectionName string) *EventLog {
	return &EventLog{collection: mc.Database.Collection(collectionName)}
}

type eventRecord struct {
	Topic      string      `bson:"topic"`
	RecordedAt time.Time   `bson:"recorded_at"`
	Payload    interface{} `bson:"payload"`
}

// Publish appends one event. Failures surface as DownstreamError so callers
// can tell a dead log apart from their own bugs.
func (l *EventLog) Publish(ctx context.Context, topic string, event interface{}) error {
	record := eventRecord{
		Topic:      topic,
		RecordedAt: time.Now().UTC(),
		Payload:    event,
	}
	if _, err := l.collection.InsertOne(ctx, record); err != nil {
		return &common.DownstreamError{Target: "event-log", Err: err}
	}
	return nil
}

// EnsureIndexes creates the topic/time index used by offline consumers.
func (l *EventLog) EnsureIndexes(ctx context.Context) error {
	_, err := l.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "topic", Value: 1}, {Key: "recorded_at", Value: 1}},
		Options: options.Index().SetName("idx_topic_time"),
	})
	return err
}
