package notificationRepo

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

type MongoNotificationRepo struct {
	coll *mongo.Collection
}

func NewMongoNotificationRepo() NotificationRepository {
	repo := &MongoNotificationRepo{coll: database.Collection(database.NotificationsCollection)}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "workerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		fmt.Printf("failed to create notification indexes: %v\n", err)
	}
	return repo
}

func (r *MongoNotificationRepo) Create(ctx context.Context, n *models.ServiceNotification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepo) ListActive(ctx context.Context, workerID string) ([]models.ServiceNotification, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"workerId": workerID, "read": false, "dismissed": false}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve notifications: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.ServiceNotification{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return out, nil
}

func (r *MongoNotificationRepo) Dismiss(ctx context.Context, id, workerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "workerId": workerID},
		bson.M{"$set": bson.M{"dismissed": true}})
	if err != nil {
		return fmt.Errorf("failed to dismiss notification %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *MongoNotificationRepo) MarkAssignment(ctx context.Context, assignmentID, workerID string, read, dismissed bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{}
	if read {
		set["read"] = true
	}
	if dismissed {
		set["dismissed"] = true
	}
	if len(set) == 0 {
		return nil
	}
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"jobAssignmentId": assignmentID, "workerId": workerID},
		bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update notifications for assignment %s: %w", assignmentID, err)
	}
	return nil
}
