package workerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kigalimove/database"
	"kigalimove/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWorkerRepo implements WorkerRepository using MongoDB.
type MongoWorkerRepo struct {
	coll *mongo.Collection
}

func NewMongoWorkerRepo() WorkerRepository {
	repo := &MongoWorkerRepo{coll: database.Collection(database.WorkersCollection)}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create worker indexes: %v\n", err)
	}
	return repo
}

func (r *MongoWorkerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "available", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	return err
}

func (r *MongoWorkerRepo) Create(ctx context.Context, w *models.Worker) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if w.CurrentJobs == nil {
		w.CurrentJobs = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, w); err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}
	return nil
}

func (r *MongoWorkerRepo) GetByID(ctx context.Context, id string) (*models.Worker, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoWorkerRepo) GetByUserID(ctx context.Context, userID string) (*models.Worker, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

func (r *MongoWorkerRepo) findOne(ctx context.Context, filter bson.M) (*models.Worker, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var w models.Worker
	if err := r.coll.FindOne(ctx, filter).Decode(&w); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to fetch worker: %w", err)
	}
	return &w, nil
}

func (r *MongoWorkerRepo) List(ctx context.Context, workerType models.WorkerType, availableOnly bool) ([]models.Worker, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if workerType != "" {
		filter["type"] = workerType
	}
	if availableOnly {
		filter["available"] = true
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve workers: %w", err)
	}
	defer cursor.Close(ctx)

	workers := []models.Worker{}
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("failed to decode workers: %w", err)
	}
	return workers, nil
}

func (r *MongoWorkerRepo) SetAvailability(ctx context.Context, id string, available bool) (*models.Worker, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"available": available, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var w models.Worker
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&w); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to update worker %s: %w", id, err)
	}
	return &w, nil
}

func (r *MongoWorkerRepo) SetFCMToken(ctx context.Context, id, token string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"fcmToken": token, "updatedAt": time.Now()}})
}

func (r *MongoWorkerRepo) AddJob(ctx context.Context, id, jobID string) error {
	update := bson.M{
		"$addToSet": bson.M{"currentJobs": jobID},
		"$set":      bson.M{"available": false, "updatedAt": time.Now()},
	}
	return r.updateOne(ctx, id, update)
}

func (r *MongoWorkerRepo) FinishJob(ctx context.Context, id, jobID string, completed bool) error {
	increment := 0
	if completed {
		increment = 1
	}
	// Pipeline update so availability is computed from the post-removal job list.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "currentJobs", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$currentJobs", bson.A{}}}}},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", jobID}}}},
			}}}},
			{Key: "completedJobs", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$completedJobs", 0}}}, increment,
			}}}},
			{Key: "updatedAt", Value: time.Now()},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "available", Value: bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$size", Value: "$currentJobs"}}, 0}}}},
		}}},
	}
	return r.updateOne(ctx, id, update)
}

func (r *MongoWorkerRepo) updateOne(ctx context.Context, id string, update interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update worker %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrWorkerNotFound
	}
	return nil
}
