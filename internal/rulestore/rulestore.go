// Package rulestore is the MongoDB-backed persistence layer for alert
// rules and their history, per spec.md §4.E. Rule identifiers are
// Mongo ObjectID hex strings; an unparsable id is treated as "not
// found" rather than an error, matching mongo_alert_rules.py's
// errors.InvalidId handling.
package rulestore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moniflow/backend/internal/models"
)

const historyTTL = 30 * 24 * time.Hour

// Store is the MongoDB-backed rule and history store.
type Store struct {
	rules   *mongo.Collection
	history *mongo.Collection
}

// New wraps an existing MongoDB database handle.
func New(db *mongo.Database) *Store {
	return &Store{
		rules:   db.Collection("alert_rules"),
		history: db.Collection("alert_history"),
	}
}

// SetupIndexes ensures the TTL index on alert_history.timestamp exists.
// Idempotent; safe to call on every process startup.
func (s *Store) SetupIndexes(ctx context.Context) error {
	_, err := s.history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(historyTTL.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

// Create inserts rule and populates its generated ID.
func (s *Store) Create(ctx context.Context, rule *models.AlertRule) error {
	res, err := s.rules.InsertOne(ctx, rule)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if ok {
		rule.ID = oid.Hex()
	}
	return nil
}

// Get retrieves a rule by its hex ObjectID. An unparsable or unknown id
// both return models.ErrRuleNotFound.
func (s *Store) Get(ctx context.Context, ruleID string) (*models.AlertRule, error) {
	oid, err := primitive.ObjectIDFromHex(ruleID)
	if err != nil {
		return nil, models.ErrRuleNotFound
	}

	var rule models.AlertRule
	err = s.rules.FindOne(ctx, bson.M{"_id": oid}).Decode(&rule)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	rule.ID = oid.Hex()
	return &rule, nil
}

// List returns every stored rule.
func (s *Store) List(ctx context.Context) ([]models.AlertRule, error) {
	cursor, err := s.rules.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	var rules []models.AlertRule
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
		}
		var rule models.AlertRule
		bsonBytes, _ := bson.Marshal(raw)
		if err := bson.Unmarshal(bsonBytes, &rule); err != nil {
			continue
		}
		if oid, ok := raw["_id"].(primitive.ObjectID); ok {
			rule.ID = oid.Hex()
		}
		rules = append(rules, rule)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return rules, nil
}

// Delete removes a rule by its hex ObjectID. An unparsable id is a
// no-op, matching the original's InvalidId handling.
func (s *Store) Delete(ctx context.Context, ruleID string) error {
	oid, err := primitive.ObjectIDFromHex(ruleID)
	if err != nil {
		return nil
	}
	if _, err := s.rules.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

// AppendHistory records one triggered/recovered transition.
func (s *Store) AppendHistory(ctx context.Context, entry models.AlertHistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if _, err := s.history.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}
