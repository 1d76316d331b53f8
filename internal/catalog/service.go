package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// ErrCourseNotFound is returned when a course id has no catalog entry.
var ErrCourseNotFound = errors.New("catalog: course not found")

// Course represents a purchasable course. Price is stored in whole rupees;
// conversion to the gateway's minor unit happens at intent creation.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
}

// Service is the trusted price source consulted before charging a customer.
// Courses are seeded in memory; the list payload is cached in Redis.
type Service struct {
	courses map[string]Course
	order   []string
	cache   *Cache
}

// NewService constructs a Service from the provided course seed.
func NewService(courses []Course, cache *Cache) (*Service, error) {
	if len(courses) == 0 {
		return nil, errors.New("catalog: at least one course is required")
	}
	byID := make(map[string]Course, len(courses))
	order := make([]string, 0, len(courses))
	for _, c := range courses {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, errors.New("catalog: course id must not be empty")
		}
		if c.Price <= 0 {
			return nil, errors.New("catalog: course price must be positive")
		}
		if _, exists := byID[id]; exists {
			return nil, errors.New("catalog: duplicate course id " + id)
		}
		c.ID = id
		byID[id] = c
		order = append(order, id)
	}
	sort.Strings(order)
	return &Service{courses: byID, order: order, cache: cache}, nil
}

// List returns every course in stable order, consulting the cache first.
func (s *Service) List(ctx context.Context) ([]Course, error) {
	var cached []Course
	hit, err := s.cache.GetJSON(ctx, listCacheKey, &cached)
	if err == nil && hit {
		return cached, nil
	}
	result := make([]Course, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.courses[id])
	}
	// Cache errors degrade to uncached reads, never to failures.
	_ = s.cache.SetJSON(ctx, listCacheKey, result)
	return result, nil
}

// Get returns the course with the given id.
func (s *Service) Get(_ context.Context, id string) (Course, error) {
	course, ok := s.courses[strings.TrimSpace(id)]
	if !ok {
		return Course{}, ErrCourseNotFound
	}
	return course, nil
}

// PriceFor returns the trusted price in rupees for the given course id.
func (s *Service) PriceFor(ctx context.Context, id string) (int64, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return course.Price, nil
}

const listCacheKey = "catalog:courses"

// DefaultCourses seeds the catalog used when no external source is configured.
func DefaultCourses() []Course {
	return []Course{
		{ID: "1", Title: "Go Fundamentals", Description: "Language basics through interfaces and goroutines.", Price: 499},
		{ID: "2", Title: "Distributed Systems", Description: "Consensus, replication, and failure modes.", Price: 799},
		{ID: "3", Title: "Backend Engineering", Description: "APIs, persistence, and payments in production.", Price: 999},
	}
}
