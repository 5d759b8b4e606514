package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/lms/internal/app/auth"
	"github.com/yigit/lms/internal/app/models"
)

// CourseListParams narrows a course listing.
// Visibility is always applied; Status and MentorID are ANDed on top when set.
type CourseListParams struct {
	Visibility auth.Visibility
	Status     *models.ApprovalStatus
	MentorID   *string
}

// ICourseRepository defines the interface for course storage
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, params CourseListParams) ([]*models.Course, error)
	Update(ctx context.Context, id string, patch models.CoursePatch) (*models.Course, error)
	UpdateApprovalStatus(ctx context.Context, id string, status models.ApprovalStatus) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}

// IUserRepository defines the interface for user storage
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role *models.Role) ([]*models.User, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository ICourseRepository
	UserRepository   IUserRepository
}

// NewRepositories initializes all Postgres-backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseRepository: NewCourseRepository(db),
		UserRepository:   NewUserRepository(db),
	}
}
