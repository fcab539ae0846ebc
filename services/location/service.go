package location

import (
	"context"
	"strings"

	locationRepo "kigalimove/database/repository/location"
	"kigalimove/models"
	"kigalimove/utils"

	"go.uber.org/zap"
)

// Cache holds level values between requests.
type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, values []string) error
}

// LocationService serves the cascading address dropdowns.
type LocationService interface {
	Provinces(ctx context.Context) (*models.LevelResult, error)
	Districts(ctx context.Context, province string) (*models.LevelResult, error)
	Sectors(ctx context.Context, province, district string) (*models.LevelResult, error)
	Cells(ctx context.Context, province, district, sector string) (*models.LevelResult, error)
	Villages(ctx context.Context, province, district, sector, cell string) (*models.LevelResult, error)
}

// DefaultLocationService reads the locations table, then the cache, then the
// bundled tree. Cache is optional.
type DefaultLocationService struct {
	Repo     locationRepo.LocationRepository
	Cache    Cache
	Fallback *Tree
	Logger   *zap.Logger
}

func NewDefaultLocationService(repo locationRepo.LocationRepository, cache Cache, logger *zap.Logger) *DefaultLocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultLocationService{
		Repo:     repo,
		Cache:    cache,
		Fallback: BuildTree(FallbackRows),
		Logger:   logger,
	}
}

func (s *DefaultLocationService) Provinces(ctx context.Context) (*models.LevelResult, error) {
	return s.Level(ctx, models.LevelProvince, models.Location{})
}

func (s *DefaultLocationService) Districts(ctx context.Context, province string) (*models.LevelResult, error) {
	return s.Level(ctx, models.LevelDistrict, models.Location{Province: province})
}

func (s *DefaultLocationService) Sectors(ctx context.Context, province, district string) (*models.LevelResult, error) {
	return s.Level(ctx, models.LevelSector, models.Location{Province: province, District: district})
}

func (s *DefaultLocationService) Cells(ctx context.Context, province, district, sector string) (*models.LevelResult, error) {
	return s.Level(ctx, models.LevelCell, models.Location{Province: province, District: district, Sector: sector})
}

func (s *DefaultLocationService) Villages(ctx context.Context, province, district, sector, cell string) (*models.LevelResult, error) {
	return s.Level(ctx, models.LevelVillage, models.Location{Province: province, District: district, Sector: sector, Cell: cell})
}

// upstream returns the parent values required for level, in cascade order.
func upstream(level models.LocationLevel, parents models.Location) []struct{ field, value string } {
	all := []struct{ field, value string }{
		{"province", parents.Province},
		{"district", parents.District},
		{"sector", parents.Sector},
		{"cell", parents.Cell},
	}
	for i, l := range models.LocationLevels {
		if l == level {
			return all[:i]
		}
	}
	return nil
}

// Level returns the values of level under parents. The remote table wins when
// it answers with rows; otherwise the cache, then the bundled tree. Only a
// missing upstream value is an error.
func (s *DefaultLocationService) Level(ctx context.Context, level models.LocationLevel, parents models.Location) (*models.LevelResult, error) {
	chain := upstream(level, parents)
	path := make([]string, 0, len(chain))
	for _, p := range chain {
		v := strings.TrimSpace(p.value)
		if v == "" {
			return nil, models.NewValidationError(p.field, "Please select a "+p.field+" first")
		}
		path = append(path, v)
	}
	trimmed := models.Location{
		Province: strings.TrimSpace(parents.Province),
		District: strings.TrimSpace(parents.District),
		Sector:   strings.TrimSpace(parents.Sector),
		Cell:     strings.TrimSpace(parents.Cell),
	}

	key := utils.LocationCachePrefix + string(level) + ":" + strings.Join(path, "/")
	logger := s.Logger.With(zap.String("level", string(level)), zap.Strings("parents", path))

	if s.Repo != nil {
		values, err := s.Repo.Distinct(ctx, level, trimmed)
		switch {
		case err != nil:
			logger.Warn("Location query failed", zap.Error(err))
		case len(values) > 0:
			if s.Cache != nil {
				if err := s.Cache.Set(ctx, key, values); err != nil {
					logger.Warn("Failed to cache locations", zap.Error(err))
				}
			}
			return &models.LevelResult{Level: level, Values: values, Source: models.LocationRemote}, nil
		}
	}

	if s.Cache != nil {
		values, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			logger.Warn("Failed to read location cache", zap.Error(err))
		} else if ok {
			return &models.LevelResult{Level: level, Values: values, Source: models.LocationCache}, nil
		}
	}

	values := s.Fallback.Children(path...)
	if values == nil {
		values = []string{}
	}
	logger.Info("Serving bundled locations")
	return &models.LevelResult{Level: level, Values: values, Source: models.LocationFallback}, nil
}

// Seed loads the bundled rows into an empty locations table.
func (s *DefaultLocationService) Seed(ctx context.Context) error {
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	s.Logger.Info("Seeding locations table", zap.Int("rows", len(FallbackRows)))
	return s.Repo.InsertMany(ctx, FallbackRows)
}
