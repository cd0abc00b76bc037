package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const topicsCollection = "topics"

// MongoStore implements TopicStore on a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	topics *mongo.Collection
}

// NewMongoStore connects, pings, and prepares the topics collection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := &MongoStore{
		client: client,
		topics: client.Database(database).Collection(topicsCollection),
	}
	s.ensureIndexes(ctx)
	return s, nil
}

// ensureIndexes is best-effort: lookups still work without the text index,
// just slower.
func (s *MongoStore) ensureIndexes(ctx context.Context) {
	_, err := s.topics.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "query", Value: 1}},
	})
	if err != nil {
		log.Warn().Err(err).Msg("creating topics query index failed")
	}
}

func (s *MongoStore) CreateTopic(ctx context.Context, topic *Topic) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = time.Now().UTC()
	}
	doc := bson.M{
		"query":        topic.Query,
		"description":  topic.Description,
		"perspectives": topic.Perspectives,
		"created_at":   topic.CreatedAt,
	}
	res, err := s.topics.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert topic: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprintf("%v", res.InsertedID), nil
	}
	return id.Hex(), nil
}

func (s *MongoStore) FindTopicsByQuery(ctx context.Context, q string) ([]Topic, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"query": pattern},
		{"description": pattern},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.topics.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find topics: %w", err)
	}
	defer cursor.Close(ctx)

	var out []Topic
	for cursor.Next(ctx) {
		var raw struct {
			ID           primitive.ObjectID `bson:"_id"`
			Query        string             `bson:"query"`
			Description  string             `bson:"description"`
			Perspectives []Perspective      `bson:"perspectives"`
			CreatedAt    time.Time          `bson:"created_at"`
		}
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, Topic{
			ID:           raw.ID.Hex(),
			Query:        raw.Query,
			Description:  raw.Description,
			Perspectives: raw.Perspectives,
			CreatedAt:    raw.CreatedAt,
		})
	}
	return out, cursor.Err()
}

func (s *MongoStore) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
