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

type MongoWithdrawalRepo struct {
	coll    *mongo.Collection
	wallets *mongo.Collection
}

func NewMongoWithdrawalRepo() WithdrawalRepository {
	repo := &MongoWithdrawalRepo{
		coll:    database.Collection(database.WithdrawalsCollection),
		wallets: database.Collection(database.WalletsCollection),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "agentId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		fmt.Printf("failed to create withdrawal indexes: %v\n", err)
	}
	walletIndex := mongo.IndexModel{Keys: bson.D{{Key: "agentId", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := repo.wallets.Indexes().CreateOne(ctx, walletIndex); err != nil {
		fmt.Printf("failed to create wallet index: %v\n", err)
	}
	return repo
}

func (r *MongoWithdrawalRepo) Create(ctx context.Context, w *models.WithdrawalRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, w); err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	return nil
}

func (r *MongoWithdrawalRepo) ListByAgent(ctx context.Context, agentID string) ([]models.WithdrawalRequest, error) {
	return r.find(ctx, bson.M{"agentId": agentID})
}

func (r *MongoWithdrawalRepo) List(ctx context.Context, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter)
}

func (r *MongoWithdrawalRepo) find(ctx context.Context, filter bson.M) ([]models.WithdrawalRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve withdrawal requests: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.WithdrawalRequest{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode withdrawal requests: %w", err)
	}
	return out, nil
}

func (r *MongoWithdrawalRepo) SetStatus(ctx context.Context, id string, from, to models.WithdrawalStatus, notes string) (*models.WithdrawalRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to, "updatedAt": time.Now()}
	if notes != "" {
		set["notes"] = notes
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var w models.WithdrawalRequest
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": from}, bson.M{"$set": set}, opts).Decode(&w)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update withdrawal request %s: %w", id, err)
	}
	n, countErr := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if countErr != nil {
		return nil, fmt.Errorf("failed to check withdrawal request %s: %w", id, countErr)
	}
	if n == 0 {
		return nil, ErrWithdrawalNotFound
	}
	return nil, ErrStateConflict
}

func (r *MongoWithdrawalRepo) Reserve(ctx context.Context, agentID string, amount, approved int64) error {
	if amount > approved {
		return ErrInsufficientFunds
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"agentId": agentID, "reserved": bson.M{"$lte": approved - amount}}
	update := bson.M{
		"$inc": bson.M{"reserved": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	// The upsert only inserts when the agent has no wallet yet. When the wallet
	// exists but is over the limit, the insert collides with the unique index.
	for attempt := 0; attempt < 2; attempt++ {
		opts := options.FindOneAndUpdate().SetUpsert(attempt == 0)
		err := r.wallets.FindOneAndUpdate(ctx, filter, update, opts).Err()
		switch {
		case err == nil:
			return nil
		case errors.Is(err, mongo.ErrNoDocuments):
			if attempt == 0 {
				// upsert inserted a fresh wallet
				return nil
			}
			return ErrInsufficientFunds
		case mongo.IsDuplicateKeyError(err):
			continue
		default:
			return fmt.Errorf("failed to reserve withdrawal for agent %s: %w", agentID, err)
		}
	}
	return ErrInsufficientFunds
}

func (r *MongoWithdrawalRepo) Release(ctx context.Context, agentID string, amount int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"agentId": agentID, "reserved": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"reserved": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.wallets.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release withdrawal for agent %s: %w", agentID, err)
	}
	if res.MatchedCount == 0 {
		return ErrStateConflict
	}
	return nil
}
