package location

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"kigalimove/models"
)

type stubRepo struct {
	values []string
	err    error
	calls  int
	last   models.Location
	count  int64
	seeded []models.Location
}

func (s *stubRepo) Distinct(_ context.Context, _ models.LocationLevel, parents models.Location) ([]string, error) {
	s.calls++
	s.last = parents
	return s.values, s.err
}

func (s *stubRepo) Count(context.Context) (int64, error) { return s.count, nil }

func (s *stubRepo) InsertMany(_ context.Context, rows []models.Location) error {
	s.seeded = rows
	return nil
}

type memCache struct {
	data   map[string][]string
	getErr error
}

func (m *memCache) Get(_ context.Context, key string) ([]string, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, values []string) error {
	m.data[key] = values
	return nil
}

func TestBuildTreeChildren(t *testing.T) {
	tree := BuildTree([]models.Location{
		{Province: "B", District: "b2", Sector: "s", Cell: "c", Village: "v"},
		{Province: "B", District: "b1", Sector: "s", Cell: "c", Village: "v"},
		{Province: "A", District: "a1"},
	})

	if got := tree.Children(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("provinces = %v", got)
	}
	if got := tree.Children("B"); !reflect.DeepEqual(got, []string{"b1", "b2"}) {
		t.Errorf("districts = %v", got)
	}
	if got := tree.Children("A", "a1"); len(got) != 0 {
		t.Errorf("expected no sectors, got %v", got)
	}
	if got := tree.Children("Z"); got != nil {
		t.Errorf("unknown path should be nil, got %v", got)
	}
}

func TestLevelPrefersRemoteAndCaches(t *testing.T) {
	repo := &stubRepo{values: []string{"Gasabo", "Kicukiro"}}
	cache := &memCache{data: map[string][]string{}}
	svc := NewDefaultLocationService(repo, cache, nil)

	res, err := svc.Districts(context.Background(), " Kigali City ")
	if err != nil {
		t.Fatalf("Districts: %v", err)
	}
	if res.Source != models.LocationRemote || !reflect.DeepEqual(res.Values, repo.values) {
		t.Fatalf("unexpected result %+v", res)
	}
	if repo.last.Province != "Kigali City" {
		t.Errorf("parent not trimmed: %q", repo.last.Province)
	}
	if _, ok := cache.data["loc:district:Kigali City"]; !ok {
		t.Errorf("expected cache entry, have %v", cache.data)
	}
}

func TestLevelFallsBackToCacheThenBundle(t *testing.T) {
	repo := &stubRepo{err: errors.New("connection refused")}
	cache := &memCache{data: map[string][]string{"loc:province:": {"Cached"}}}
	svc := NewDefaultLocationService(repo, cache, nil)

	res, err := svc.Provinces(context.Background())
	if err != nil {
		t.Fatalf("Provinces: %v", err)
	}
	if res.Source != models.LocationCache || res.Values[0] != "Cached" {
		t.Fatalf("expected cached values, got %+v", res)
	}

	res, err = svc.Sectors(context.Background(), "Kigali City", "Gasabo")
	if err != nil {
		t.Fatalf("Sectors: %v", err)
	}
	want := []string{"Kacyiru", "Kimironko", "Remera"}
	if res.Source != models.LocationFallback || !reflect.DeepEqual(res.Values, want) {
		t.Fatalf("got %+v, want fallback %v", res, want)
	}
}

func TestLevelEmptyTableUsesBundle(t *testing.T) {
	svc := NewDefaultLocationService(&stubRepo{}, nil, nil)

	res, err := svc.Villages(context.Background(), "Kigali City", "Gasabo", "Remera", "Rukiri I")
	if err != nil {
		t.Fatalf("Villages: %v", err)
	}
	if res.Source != models.LocationFallback || !reflect.DeepEqual(res.Values, []string{"Amahoro", "Ubumwe"}) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLevelCacheErrorIsIgnored(t *testing.T) {
	repo := &stubRepo{err: errors.New("down")}
	svc := NewDefaultLocationService(repo, &memCache{getErr: errors.New("redis down")}, nil)

	res, err := svc.Provinces(context.Background())
	if err != nil {
		t.Fatalf("Provinces: %v", err)
	}
	if res.Source != models.LocationFallback || len(res.Values) != 5 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLevelRequiresUpstream(t *testing.T) {
	repo := &stubRepo{}
	svc := NewDefaultLocationService(repo, nil, nil)

	_, err := svc.Cells(context.Background(), "Kigali City", "", "Remera")
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "district" {
		t.Fatalf("expected district validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Errorf("repository should not be queried")
	}
}

func TestSeedOnlyEmptyTable(t *testing.T) {
	repo := &stubRepo{count: 3}
	svc := NewDefaultLocationService(repo, nil, nil)
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if repo.seeded != nil {
		t.Fatalf("non-empty table must not be seeded")
	}

	repo.count = 0
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(repo.seeded) != len(FallbackRows) {
		t.Errorf("seeded %d rows, want %d", len(repo.seeded), len(FallbackRows))
	}
}
