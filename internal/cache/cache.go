// Package cache keeps recently read course documents in Redis.
// Courses never change through the scorecard workflow, so a read-through cache in front
// of GET /api/courses/:id is safe; course creation writes the new document through.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/trentd187/golf-scorecards/internal/api"
)

// CourseCache stores course documents by id. A miss or a cache failure is reported as
// ok == false; callers then fall back to the database.
type CourseCache interface {
	GetCourse(ctx context.Context, id string) (*api.Course, bool)
	SetCourse(ctx context.Context, course *api.Course)
	Close() error
}

// Noop is the cache used when no Redis URL is configured.
type Noop struct{}

func (Noop) GetCourse(context.Context, string) (*api.Course, bool) { return nil, false }
func (Noop) SetCourse(context.Context, *api.Course) {}
func (Noop) Close() error { return nil }

// Redis is a CourseCache backed by a Redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the server at url (redis://host:port/db) and checks it answers.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{client: client, ttl: ttl}, nil
}

// New returns a Redis cache when url is set and a Noop cache otherwise.
func New(ctx context.Context, url string, ttl time.Duration) (CourseCache, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewRedis(ctx, url, ttl)
}

func courseKey(id string) string {
	return "course:" + id
}

func (r *Redis) GetCourse(ctx context.Context, id string) (*api.Course, bool) {
	data, err := r.client.Get(ctx, courseKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug.Printf("Course cache read failed for %s: %v", id, err)
		return nil, false
	}

	var course api.Course
	if err := json.Unmarshal(data, &course); err != nil {
		logger.Debug.Printf("Dropping unreadable cached course %s: %v", id, err)
		r.client.Del(ctx, courseKey(id))
		return nil, false
	}
	return &course, true
}

func (r *Redis) SetCourse(ctx context.Context, course *api.Course) {
	data, err := json.Marshal(course)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, courseKey(course.ID), data, r.ttl).Err(); err != nil {
		logger.Debug.Printf("Course cache write failed for %s: %v", course.ID, err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
