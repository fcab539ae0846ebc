// File: database/repository/user/userMongoQueries.go
package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kigalimove/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.UserAccount, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByPhone retrieves a user by phone number.
func (r *MongoUserRepo) GetByPhone(ctx context.Context, phone string) (*models.UserAccount, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.UserAccount, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var user models.UserAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// GetAll retrieves all users, hiding password hashes.
func (r *MongoUserRepo) GetAll(ctx context.Context, role models.Role) ([]models.UserAccount, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	opts := options.Find().
		SetProjection(bson.M{"passwordHash": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.UserAccount
	for cursor.Next(ctx) {
		var u models.UserAccount
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}
