package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/repository"
)

type fakeLocationRepo struct {
	repository.LocationRepository
	byCode map[string]*models.Location

	failNextCreateWithDup bool
	missFirstGet          bool
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{byCode: map[string]*models.Location{}}
}

func (f *fakeLocationRepo) GetByCode(_ context.Context, code string) (*models.Location, error) {
	if f.missFirstGet {
		f.missFirstGet = false
		return nil, nil
	}
	return f.byCode[code], nil
}

func (f *fakeLocationRepo) Create(_ context.Context, loc *models.Location) error {
	if f.failNextCreateWithDup {
		f.failNextCreateWithDup = false
		return &pq.Error{Code: "23505"}
	}
	if loc.ID == "" {
		loc.ID = "loc-" + loc.Code
	}
	f.byCode[loc.Code] = loc
	return nil
}

func TestLookupOrCreateCreatesOnFirstSight(t *testing.T) {
	repo := newFakeLocationRepo()
	svc := NewLocationService(repo)

	loc, err := svc.LookupOrCreate(context.Background(), "Чолпон Ата")
	require.NoError(t, err)

	assert.Equal(t, "чолпон-ата", loc.Code)
	assert.Equal(t, "Чолпон Ата", loc.NameRu)
	assert.True(t, loc.IsActive)
}

func TestLookupOrCreateReturnsExisting(t *testing.T) {
	repo := newFakeLocationRepo()
	existing := &models.Location{ID: "loc-1", Code: "bishkek", NameRu: "Бишкек"}
	repo.byCode["bishkek"] = existing

	svc := NewLocationService(repo)

	loc, err := svc.LookupOrCreate(context.Background(), "  Bishkek ")
	require.NoError(t, err)
	assert.Equal(t, "loc-1", loc.ID, "existing row must be reused, not duplicated")
}

func TestLookupOrCreateSurvivesCreateRace(t *testing.T) {
	repo := newFakeLocationRepo()
	svc := NewLocationService(repo)

	// Simulate losing the insert race: the first read misses, the
	// create hits the unique constraint, and by the second read the
	// winner's row is visible.
	repo.missFirstGet = true
	repo.failNextCreateWithDup = true
	repo.byCode["osh"] = &models.Location{ID: "loc-w", Code: "osh", NameRu: "Ош"}

	loc, err := svc.LookupOrCreate(context.Background(), "Osh")
	require.NoError(t, err)
	assert.Equal(t, "loc-w", loc.ID)
}

func TestLookupOrCreateEmptyText(t *testing.T) {
	svc := NewLocationService(newFakeLocationRepo())

	_, err := svc.LookupOrCreate(context.Background(), "  !? ")
	require.Error(t, err)
}
