package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/trentd187/golf-scorecards/internal/models"
)

// likeEscaper quotes the LIKE metacharacters with a backslash, matching the ESCAPE '\'
// clause in ListCourses. It works the same on Postgres and SQLite.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ListCourses returns every course whose name, city, or state starts with search
// (case-insensitive). An empty search returns the whole catalog, ordered by name.
func (s *GormStore) ListCourses(ctx context.Context, search string) ([]models.Course, error) {
	query := s.db.WithContext(ctx).Preload("Holes", byHoleNumber).Order("name ASC")

	if search = strings.TrimSpace(search); search != "" {
		// The search is a literal prefix: a "%" or "_" the user typed must not act as a
		// LIKE wildcard, so both (and the escape character itself) are escaped.
		prefix := likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(city) LIKE ? ESCAPE '\' OR LOWER(state) LIKE ? ESCAPE '\'`,
			prefix, prefix, prefix,
		)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// GetCourse returns one course with its holes in hole-number order.
func (s *GormStore) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).
		Preload("Holes", byHoleNumber).
		First(&course, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &course, nil
}

// CreateCourse inserts a course and its holes in one statement batch.
func (s *GormStore) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}
