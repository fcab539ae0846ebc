package assignmentRepo

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

// MongoAssignmentRepo implements AssignmentRepository using MongoDB.
type MongoAssignmentRepo struct {
	coll *mongo.Collection
}

func NewMongoAssignmentRepo() AssignmentRepository {
	repo := &MongoAssignmentRepo{coll: database.Collection(database.AssignmentsCollection)}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create assignment indexes: %v\n", err)
	}
	return repo
}

func (r *MongoAssignmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "serviceType", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "workerId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoAssignmentRepo) CreateMany(ctx context.Context, assignments []models.JobAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(assignments))
	for _, a := range assignments {
		docs = append(docs, a)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create job assignments: %w", err)
	}
	return nil
}

func (r *MongoAssignmentRepo) GetByID(ctx context.Context, id string) (*models.JobAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a models.JobAssignment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch job assignment %s: %w", id, err)
	}
	return &a, nil
}

func (r *MongoAssignmentRepo) ListByOrder(ctx context.Context, orderID string) ([]models.JobAssignment, error) {
	return r.find(ctx, bson.M{"orderId": orderID})
}

func (r *MongoAssignmentRepo) ListByWorker(ctx context.Context, workerID string) ([]models.JobAssignment, error) {
	return r.find(ctx, bson.M{"workerId": workerID})
}

func (r *MongoAssignmentRepo) ListByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.JobAssignment, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *MongoAssignmentRepo) find(ctx context.Context, filter bson.M) ([]models.JobAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve job assignments: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.JobAssignment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode job assignments: %w", err)
	}
	return out, nil
}

// Claim is the compare-and-swap on the worker field: it only matches while the
// assignment is pending and unowned, so at most one concurrent caller succeeds.
func (r *MongoAssignmentRepo) Claim(ctx context.Context, id, workerID string, at time.Time) (*models.JobAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":       id,
		"status":   models.AssignmentPending,
		"workerId": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{
		"workerId":   workerID,
		"status":     models.AssignmentAssigned,
		"assignedAt": at,
		"acceptedAt": at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a models.JobAssignment
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&a)
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to claim job assignment %s: %w", id, err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrAlreadyTaken
}

func (r *MongoAssignmentRepo) Advance(ctx context.Context, id, workerID string, from, to models.AssignmentStatus, at time.Time) (*models.JobAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to}
	if to == models.AssignmentCompleted {
		set["completedAt"] = at
	}
	filter := bson.M{"id": id, "workerId": workerID, "status": from}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a models.JobAssignment
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&a)
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update job assignment %s: %w", id, err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrStateConflict
}

func (r *MongoAssignmentRepo) Release(ctx context.Context, id, workerID string) (*models.JobAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "workerId": workerID, "status": models.AssignmentAssigned}
	update := bson.M{
		"$set":   bson.M{"workerId": "", "status": models.AssignmentPending},
		"$unset": bson.M{"assignedAt": "", "acceptedAt": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a models.JobAssignment
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&a)
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to release job assignment %s: %w", id, err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrStateConflict
}
