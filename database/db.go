package database

import (
	"context"
	"log"
	"time"

	"kigalimove/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. Each one stands in for a table of the hosted backend.
const (
	OrdersCollection        = "orders"
	AssignmentsCollection   = "job_assignments"
	ApplicationsCollection  = "job_applications"
	CommissionsCollection   = "agent_commissions"
	WithdrawalsCollection   = "withdrawal_requests"
	WorkersCollection       = "worker_profiles"
	LocationsCollection     = "rwanda_locations"
	UsersCollection         = "users"
	NotificationsCollection = "real_notifications"
	SMSLogsCollection       = "sms_logs"
	WalletsCollection       = "agent_wallets"
)

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// InitDB initializes the MongoDB connection.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	MongoClient = client
	log.Println("Connected to MongoDB successfully!")
}

// Collection returns a handle on the named collection of the application database.
func Collection(name string) *mongo.Collection {
	return MongoClient.Database(config.AppConfig.DatabaseName).Collection(name)
}

// Disconnect closes the global client.
func Disconnect(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
