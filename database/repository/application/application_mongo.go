package applicationRepo

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

type MongoApplicationRepo struct {
	coll *mongo.Collection
}

func NewMongoApplicationRepo() ApplicationRepository {
	repo := &MongoApplicationRepo{coll: database.Collection(database.ApplicationsCollection)}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "submittedAt", Value: -1}}},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		fmt.Printf("failed to create application indexes: %v\n", err)
	}
	return repo
}

func (r *MongoApplicationRepo) Create(ctx context.Context, app *models.JobApplication) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, app); err != nil {
		return fmt.Errorf("failed to create job application: %w", err)
	}
	return nil
}

func (r *MongoApplicationRepo) GetByID(ctx context.Context, id string) (*models.JobApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var app models.JobApplication
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&app); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch job application %s: %w", id, err)
	}
	return &app, nil
}

func (r *MongoApplicationRepo) List(ctx context.Context, status models.ApplicationStatus) ([]models.JobApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve job applications: %w", err)
	}
	defer cursor.Close(ctx)

	apps := []models.JobApplication{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("failed to decode job applications: %w", err)
	}
	return apps, nil
}

func (r *MongoApplicationRepo) Review(ctx context.Context, id string, to models.ApplicationStatus, at time.Time) (*models.JobApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.ApplicationPending}
	update := bson.M{"$set": bson.M{"status": to, "reviewedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var app models.JobApplication
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&app)
	if err == nil {
		return &app, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to review job application %s: %w", id, err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrStateConflict
}
