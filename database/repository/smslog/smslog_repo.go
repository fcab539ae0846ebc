package smslogRepo

import (
	"context"
	"fmt"
	"time"

	"kigalimove/database"
	"kigalimove/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SMSLogRepository appends delivery outcomes of order SMS messages.
type SMSLogRepository interface {
	Create(ctx context.Context, entry *models.SMSLog) error
	ListByOrder(ctx context.Context, orderID string) ([]models.SMSLog, error)
}

type MongoSMSLogRepo struct {
	coll *mongo.Collection
}

func NewMongoSMSLogRepo() SMSLogRepository {
	return &MongoSMSLogRepo{coll: database.Collection(database.SMSLogsCollection)}
}

func (r *MongoSMSLogRepo) Create(ctx context.Context, entry *models.SMSLog) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to write sms log: %w", err)
	}
	return nil
}

func (r *MongoSMSLogRepo) ListByOrder(ctx context.Context, orderID string) ([]models.SMSLog, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"orderId": orderID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sms logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := []models.SMSLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode sms logs: %w", err)
	}
	return logs, nil
}
