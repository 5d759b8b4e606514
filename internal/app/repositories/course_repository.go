package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/lms/internal/app/auth"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/pkg/apperrors"
	"github.com/yigit/lms/internal/pkg/dberrors"
	"github.com/yigit/lms/internal/pkg/logger"
)

// Foreign key from migrations/001_init.sql
const constraintCoursesMentor = "courses_mentor_id_fkey"

var courseColumns = []string{
	"id::text", "title", "description", "mentor_id::text", "batch_id", "zoom_id", "teams_id",
	"approval_status", "video_urls", "created_at", "updated_at",
}

// CourseRepository handles database operations for courses.
type CourseRepository struct {
	DB *pgxpool.Pool
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{DB: db}
}

// scanCourse scans a row into a Course struct.
func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	var status string
	err := row.Scan(
		&course.ID, &course.Title, &course.Description, &course.MentorID, &course.BatchID,
		&course.ZoomID, &course.TeamsID, &status, &course.VideoURLs,
		&course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Msg("Error scanning course")
		return nil, err
	}
	course.ApprovalStatus = models.ApprovalStatus(status)
	if course.VideoURLs == nil {
		course.VideoURLs = []models.VideoLink{}
	}
	return &course, nil
}

func encodeVideoURLs(links []models.VideoLink) ([]byte, error) {
	if links == nil {
		links = []models.VideoLink{}
	}
	return json.Marshal(links)
}

// isUUID guards uuid columns against values Postgres would refuse to cast.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// visibilityClause renders a Visibility as a WHERE condition. nil means no restriction.
func visibilityClause(v auth.Visibility) squirrel.Sqlizer {
	if v.All {
		return nil
	}
	approved := squirrel.Eq{"approval_status": string(models.StatusApproved)}
	if v.OwnerID != "" && isUUID(v.OwnerID) {
		return squirrel.Or{approved, squirrel.Eq{"mentor_id": v.OwnerID}}
	}
	return approved
}

// buildListQuery builds the SELECT for List
func buildListQuery(params CourseListParams) squirrel.SelectBuilder {
	query := squirrel.Select(courseColumns...).
		From("courses").
		PlaceholderFormat(squirrel.Dollar)

	if clause := visibilityClause(params.Visibility); clause != nil {
		query = query.Where(clause)
	}
	if params.Status != nil {
		query = query.Where(squirrel.Eq{"approval_status": string(*params.Status)})
	}
	if params.MentorID != nil {
		query = query.Where(squirrel.Eq{"mentor_id": *params.MentorID})
	}
	return query.OrderBy("created_at DESC", "id")
}

// Create inserts a new course and fills in its generated id and timestamps.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	videos, err := encodeVideoURLs(course.VideoURLs)
	if err != nil {
		return fmt.Errorf("error encoding video urls: %w", err)
	}
	if course.ID == "" {
		course.ID = uuid.New().String()
	}

	sql, args, err := squirrel.Insert("courses").
		Columns("id", "title", "description", "mentor_id", "batch_id", "zoom_id", "teams_id", "approval_status", "video_urls").
		Values(course.ID, course.Title, course.Description, course.MentorID, course.BatchID, course.ZoomID, course.TeamsID,
			string(course.ApprovalStatus), videos).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return err
	}

	err = r.DB.QueryRow(ctx, sql, args...).Scan(&course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, constraintCoursesMentor) {
			return errUnknownMentor()
		}
		logger.Error().Err(err).Str("courseID", course.ID).Msg("Error executing create course query")
		return err
	}
	if course.VideoURLs == nil {
		course.VideoURLs = []models.VideoLink{}
	}
	return nil
}

// GetByID retrieves a single course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if !isUUID(id) {
		return nil, apperrors.ErrCourseNotFound
	}

	sql, args, err := squirrel.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, err
	}

	return scanCourse(r.DB.QueryRow(ctx, sql, args...))
}

// List retrieves the courses matching params.
func (r *CourseRepository) List(ctx context.Context, params CourseListParams) ([]*models.Course, error) {
	if params.MentorID != nil && !isUUID(*params.MentorID) {
		return []*models.Course{}, nil
	}

	sql, args, err := buildListQuery(params).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, err
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, err
	}
	return courses, nil
}

// Update writes the patch in a single statement and returns the stored row.
func (r *CourseRepository) Update(ctx context.Context, id string, patch models.CoursePatch) (*models.Course, error) {
	if !isUUID(id) {
		return nil, apperrors.ErrCourseNotFound
	}

	set := map[string]interface{}{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description.Set {
		set["description"] = patch.Description.Ptr()
	}
	if patch.MentorID.Set {
		set["mentor_id"] = patch.MentorID.Ptr()
	}
	if patch.BatchID.Set {
		set["batch_id"] = patch.BatchID.Ptr()
	}
	if patch.ZoomID.Set {
		set["zoom_id"] = patch.ZoomID.Ptr()
	}
	if patch.TeamsID.Set {
		set["teams_id"] = patch.TeamsID.Ptr()
	}
	if patch.VideoURLs != nil {
		videos, err := encodeVideoURLs(*patch.VideoURLs)
		if err != nil {
			return nil, fmt.Errorf("error encoding video urls: %w", err)
		}
		set["video_urls"] = videos
	}

	return r.updateReturning(ctx, id, set)
}

// UpdateApprovalStatus overwrites the approval status unconditionally.
func (r *CourseRepository) UpdateApprovalStatus(ctx context.Context, id string, status models.ApprovalStatus) (*models.Course, error) {
	if !isUUID(id) {
		return nil, apperrors.ErrCourseNotFound
	}
	return r.updateReturning(ctx, id, map[string]interface{}{
		"approval_status": string(status),
		"updated_at":      time.Now().UTC(),
	})
}

func (r *CourseRepository) updateReturning(ctx context.Context, id string, set map[string]interface{}) (*models.Course, error) {
	suffix := "RETURNING " + strings.Join(courseColumns, ", ")
	sql, args, err := squirrel.Update("courses").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix(suffix).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return nil, err
	}

	course, err := scanCourse(r.DB.QueryRow(ctx, sql, args...))
	if err != nil && dberrors.IsForeignKeyViolation(err, constraintCoursesMentor) {
		return nil, errUnknownMentor()
	}
	return course, err
}

func errUnknownMentor() error {
	return apperrors.NewBadRequestError("mentorId does not reference an existing user")
}

// Delete removes a course by ID.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return apperrors.ErrCourseNotFound
	}

	sql, args, err := squirrel.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseID", id).Msg("Error executing delete course query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
