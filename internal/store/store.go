// Package store persists assembled topics. The pipeline only depends on the
// TopicStore interface; Mongo is the durable implementation and Memory backs
// tests and offline runs.
package store

import (
	"context"
	"time"
)

// Perspective is one summarized viewpoint with the article texts behind it.
type Perspective struct {
	Content string   `bson:"content" json:"content"`
	Sources []string `bson:"sources" json:"sources"`
}

// Topic is the final artifact of a pipeline run.
type Topic struct {
	ID           string        `bson:"_id,omitempty" json:"id,omitempty"`
	Query        string        `bson:"query" json:"query"`
	Description  string        `bson:"description" json:"description"`
	Perspectives []Perspective `bson:"perspectives" json:"perspectives"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
}

// TopicStore is the persistence gateway.
type TopicStore interface {
	// CreateTopic stores the topic with its nested perspectives and
	// sources, returning the new topic's identifier.
	CreateTopic(ctx context.Context, topic *Topic) (string, error)
	// FindTopicsByQuery returns previously stored topics whose query or
	// description matches q, newest first.
	FindTopicsByQuery(ctx context.Context, q string) ([]Topic, error)
	Close(ctx context.Context) error
}
