package locationRepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"kigalimove/database"
	"kigalimove/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocationRepository reads the administrative hierarchy table.
type LocationRepository interface {
	// Distinct returns the sorted distinct values of level among rows matching every parent level.
	Distinct(ctx context.Context, level models.LocationLevel, parents models.Location) ([]string, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, rows []models.Location) error
}

type MongoLocationRepo struct {
	coll *mongo.Collection
}

func NewMongoLocationRepo() LocationRepository {
	repo := &MongoLocationRepo{coll: database.Collection(database.LocationsCollection)}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "province", Value: 1},
			{Key: "district", Value: 1},
			{Key: "sector", Value: 1},
			{Key: "cell", Value: 1},
			{Key: "village", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		fmt.Printf("failed to create location indexes: %v\n", err)
	}
	return repo
}

// ParentFilter builds the equality filter for the levels above level.
func ParentFilter(level models.LocationLevel, parents models.Location) bson.M {
	filter := bson.M{}
	upstream := []struct {
		level models.LocationLevel
		value string
	}{
		{models.LevelProvince, parents.Province},
		{models.LevelDistrict, parents.District},
		{models.LevelSector, parents.Sector},
		{models.LevelCell, parents.Cell},
	}
	for _, u := range upstream {
		if u.level == level {
			break
		}
		filter[string(u.level)] = u.value
	}
	return filter
}

func (r *MongoLocationRepo) Distinct(ctx context.Context, level models.LocationLevel, parents models.Location) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	raw, err := r.coll.Distinct(ctx, string(level), ParentFilter(level, parents))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s values: %w", level, err)
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values, nil
}

func (r *MongoLocationRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.coll.EstimatedDocumentCount(ctx)
}

func (r *MongoLocationRepo) InsertMany(ctx context.Context, rows []models.Location) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to seed locations: %w", err)
	}
	return nil
}
