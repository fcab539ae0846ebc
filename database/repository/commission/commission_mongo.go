package commissionRepo

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

type MongoCommissionRepo struct {
	coll *mongo.Collection
}

func NewMongoCommissionRepo() CommissionRepository {
	repo := &MongoCommissionRepo{coll: database.Collection(database.CommissionsCollection)}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "serviceType", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "agentId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		fmt.Printf("failed to create commission indexes: %v\n", err)
	}
	return repo
}

func (r *MongoCommissionRepo) CreateMany(ctx context.Context, commissions []models.AgentCommission) error {
	if len(commissions) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(commissions))
	for _, c := range commissions {
		docs = append(docs, c)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create commissions: %w", err)
	}
	return nil
}

func (r *MongoCommissionRepo) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"orderId": orderID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check commissions for order %s: %w", orderID, err)
	}
	return n > 0, nil
}

func (r *MongoCommissionRepo) ListByAgent(ctx context.Context, agentID string) ([]models.AgentCommission, error) {
	return r.find(ctx, bson.M{"agentId": agentID})
}

func (r *MongoCommissionRepo) List(ctx context.Context, status models.CommissionStatus) ([]models.AgentCommission, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter)
}

func (r *MongoCommissionRepo) find(ctx context.Context, filter bson.M) ([]models.AgentCommission, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve commissions: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.AgentCommission{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode commissions: %w", err)
	}
	return out, nil
}

func (r *MongoCommissionRepo) SetStatus(ctx context.Context, id string, from, to models.CommissionStatus, at time.Time) (*models.AgentCommission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to}
	if to == models.CommissionApproved {
		set["approvedAt"] = at
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.AgentCommission
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": from}, bson.M{"$set": set}, opts).Decode(&c)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update commission %s: %w", id, err)
	}
	n, countErr := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if countErr != nil {
		return nil, fmt.Errorf("failed to check commission %s: %w", id, countErr)
	}
	if n == 0 {
		return nil, ErrCommissionNotFound
	}
	return nil, ErrStateConflict
}
