package distance

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"kigalimove/models"

	"go.uber.org/zap"
)

const estimateTimeout = 15 * time.Second

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// TextGenerator is the language model used to guess road distances.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Cache stores previously estimated distances.
type Cache interface {
	Get(ctx context.Context, pickup, delivery string) (float64, bool, error)
	Set(ctx context.Context, pickup, delivery string, km float64) error
}

// Estimate is a distance together with where it came from.
type Estimate struct {
	Km     float64               `json:"km"`
	Source models.DistanceSource `json:"source"`
}

// Estimator turns an address pair into kilometres. It never fails: every
// problem degrades to the configured default distance.
type Estimator struct {
	generator TextGenerator
	cache     Cache
	defaultKm float64
	logger    *zap.Logger
}

// NewEstimator builds an estimator. generator and cache may be nil.
func NewEstimator(generator TextGenerator, cache Cache, defaultKm float64, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{generator: generator, cache: cache, defaultKm: defaultKm, logger: logger}
}

func (e *Estimator) fallback() Estimate {
	return Estimate{Km: e.defaultKm, Source: models.DistanceDefault}
}

func (e *Estimator) Estimate(ctx context.Context, pickup, delivery string) Estimate {
	if e.generator == nil {
		e.logger.Warn("Distance generator not configured, using default distance")
		return e.fallback()
	}

	ctx, cancel := context.WithTimeout(ctx, estimateTimeout)
	defer cancel()

	if e.cache != nil {
		km, ok, err := e.cache.Get(ctx, pickup, delivery)
		if err != nil {
			e.logger.Debug("Distance cache read failed", zap.Error(err))
		} else if ok {
			return Estimate{Km: km, Source: models.DistanceEstimated}
		}
	}

	text, err := e.generator.GenerateContent(ctx, Prompt(pickup, delivery))
	if err != nil {
		e.logger.Warn("Distance estimation failed, using default distance", zap.Error(err))
		return e.fallback()
	}
	km, ok := ParseKilometres(text)
	if !ok {
		e.logger.Warn("Distance response had no number, using default distance", zap.String("response", text))
		return e.fallback()
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, pickup, delivery, km); err != nil {
			e.logger.Debug("Distance cache write failed", zap.Error(err))
		}
	}
	return Estimate{Km: km, Source: models.DistanceEstimated}
}

// Prompt is the question sent to the language model.
func Prompt(pickup, delivery string) string {
	return fmt.Sprintf("Calculate the approximate driving distance in kilometers between %s and %s in Rwanda. "+
		"Return only the number without any text or units.", pickup, delivery)
}

// ParseKilometres extracts the first decimal number in text.
func ParseKilometres(text string) (float64, bool) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	km, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return km, true
}
