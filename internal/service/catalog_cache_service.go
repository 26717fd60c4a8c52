package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/timetable-engine/internal/models"
)

type rawCatalogReader interface {
	Cohorts(ctx context.Context, programID string, term *int) ([]models.Cohort, error)
	Subjects(ctx context.Context, programID string, term int) ([]models.Subject, error)
	Instructors(ctx context.Context, programID string) ([]models.Instructor, error)
}

// CatalogCacheService wraps a catalog reader with a Redis-backed cache,
// so repeated generation runs against the same program within the
// configured TTL skip the round trip to Postgres for cohorts, subjects
// and instructors.
type CatalogCacheService struct {
	source rawCatalogReader
	cache  *CacheService
}

// NewCatalogCacheService builds a CatalogCacheService. If cache is
// disabled, every call falls through to source.
func NewCatalogCacheService(source rawCatalogReader, cache *CacheService) *CatalogCacheService {
	return &CatalogCacheService{source: source, cache: cache}
}

// Cohorts returns a program's cohorts, scoped to term when given.
func (s *CatalogCacheService) Cohorts(ctx context.Context, programID string, term *int) ([]models.Cohort, error) {
	key := fmt.Sprintf("catalog:cohorts:%s:%s", programID, termKey(term))
	var cohorts []models.Cohort
	if hit, _ := s.cache.Get(ctx, key, &cohorts); hit {
		return cohorts, nil
	}
	cohorts, err := s.source.Cohorts(ctx, programID, term)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, cohorts, 0)
	return cohorts, nil
}

// Subjects returns a program's subjects for one term.
func (s *CatalogCacheService) Subjects(ctx context.Context, programID string, term int) ([]models.Subject, error) {
	key := fmt.Sprintf("catalog:subjects:%s:%d", programID, term)
	var subjects []models.Subject
	if hit, _ := s.cache.Get(ctx, key, &subjects); hit {
		return subjects, nil
	}
	subjects, err := s.source.Subjects(ctx, programID, term)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, subjects, 0)
	return subjects, nil
}

// Instructors returns a program's instructors.
func (s *CatalogCacheService) Instructors(ctx context.Context, programID string) ([]models.Instructor, error) {
	key := fmt.Sprintf("catalog:instructors:%s", programID)
	var instructors []models.Instructor
	if hit, _ := s.cache.Get(ctx, key, &instructors); hit {
		return instructors, nil
	}
	instructors, err := s.source.Instructors(ctx, programID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, instructors, 0)
	return instructors, nil
}

func termKey(term *int) string {
	if term == nil {
		return "*"
	}
	return fmt.Sprintf("%d", *term)
}
