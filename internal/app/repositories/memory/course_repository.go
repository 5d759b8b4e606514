package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/app/repositories"
	"github.com/yigit/lms/internal/pkg/apperrors"
)

type courseRepository struct {
	db *courseTable
}

// NewCourseRepository creates a course repository over db
func NewCourseRepository(db *DB) repositories.ICourseRepository {
	return &courseRepository{db: db.course}
}

func cloneCourse(c *models.Course) *models.Course {
	out := *c
	out.VideoURLs = make([]models.VideoLink, 0, len(c.VideoURLs))
	for _, link := range c.VideoURLs {
		cp := make(models.VideoLink, len(link))
		for k, v := range link {
			cp[k] = v
		}
		out.VideoURLs = append(out.VideoURLs, cp)
	}
	return &out
}

func (repo *courseRepository) Create(ctx context.Context, course *models.Course) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	if course.VideoURLs == nil {
		course.VideoURLs = []models.VideoLink{}
	}
	repo.db.table[course.ID] = cloneCourse(course)
	return nil
}

func (repo *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return cloneCourse(c), nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (repo *courseRepository) List(ctx context.Context, params repositories.CourseListParams) ([]*models.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := []*models.Course{}
	for _, c := range repo.db.table {
		if !params.Visibility.Allows(c) {
			continue
		}
		if params.Status != nil && c.ApprovalStatus != *params.Status {
			continue
		}
		if params.MentorID != nil && !c.OwnedBy(*params.MentorID) {
			continue
		}
		courses = append(courses, cloneCourse(c))
	}
	sort.Slice(courses, func(i, j int) bool {
		if !courses[i].CreatedAt.Equal(courses[j].CreatedAt) {
			return courses[i].CreatedAt.After(courses[j].CreatedAt)
		}
		return courses[i].ID < courses[j].ID
	})
	return courses, nil
}

func (repo *courseRepository) Update(ctx context.Context, id string, patch models.CoursePatch) (*models.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	updated := patch.Apply(*cloneCourse(orig))
	updated.UpdatedAt = time.Now().UTC()
	repo.db.table[id] = &updated
	return cloneCourse(&updated), nil
}

func (repo *courseRepository) UpdateApprovalStatus(ctx context.Context, id string, status models.ApprovalStatus) (*models.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	orig.ApprovalStatus = status
	orig.UpdatedAt = time.Now().UTC()
	return cloneCourse(orig), nil
}

func (repo *courseRepository) Delete(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(repo.db.table, id)
	return nil
}
