package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/lms/internal/app/auth"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/app/repositories"
	"github.com/yigit/lms/internal/pkg/apperrors"
)

const maxCourseTitleLength = 200

// CourseService defines the interface for course operations
type CourseService interface {
	Create(ctx context.Context, caller auth.Caller, draft models.CourseDraft) (*models.Course, error)
	List(ctx context.Context, caller auth.Caller, status *models.ApprovalStatus) ([]*models.Course, error)
	GetOne(ctx context.Context, caller auth.Caller, id string) (*models.Course, error)
	Update(ctx context.Context, caller auth.Caller, id string, patch models.CoursePatch) (*models.Course, error)
	Delete(ctx context.Context, caller auth.Caller, id string) error
	SetApprovalStatus(ctx context.Context, caller auth.Caller, id string, status models.ApprovalStatus) (*models.Course, error)
	ListByMentor(ctx context.Context, caller auth.Caller, mentorID string) ([]*models.Course, error)
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	courseRepo repositories.ICourseRepository
	userRepo   repositories.IUserRepository
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService.
// userRepo is used to check that admin-assigned mentors exist.
func NewCourseService(
	courseRepo repositories.ICourseRepository,
	userRepo repositories.IUserRepository,
	logger zerolog.Logger,
) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

func courseNotFound(id string) error {
	return apperrors.NewResourceNotFoundError("course not found").
		WithDetails(map[string]interface{}{"courseId": id})
}

// load fetches a course, translating a missing row into a NotFound error.
// Any other repository error is returned as is.
func (s *courseServiceImpl) load(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, courseNotFound(id)
		}
		return nil, err
	}
	return course, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.NewBadRequestError("title is required").
			WithDetails(map[string]interface{}{"field": "title"})
	}
	if utf8.RuneCountInString(title) > maxCourseTitleLength {
		return apperrors.NewBadRequestError("title must be at most 200 characters").
			WithDetails(map[string]interface{}{"field": "title"})
	}
	return nil
}

// validateMentor checks that mentorID, when given, names an existing mentor.
func (s *courseServiceImpl) validateMentor(ctx context.Context, mentorID *string) error {
	if mentorID == nil {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, *mentorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewBadRequestError("mentorId does not reference an existing user").
				WithDetails(map[string]interface{}{"mentorId": *mentorID})
		}
		return err
	}
	if user.Role != models.RoleMentor {
		return apperrors.NewBadRequestError("mentorId must reference a user with the mentor role").
			WithDetails(map[string]interface{}{"mentorId": *mentorID, "role": string(user.Role)})
	}
	return nil
}

func sameMentor(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Create stores a new pending course
func (s *courseServiceImpl) Create(ctx context.Context, caller auth.Caller, draft models.CourseDraft) (*models.Course, error) {
	if !auth.CanCreate(caller.Role) {
		return nil, apperrors.NewForbiddenError("only admins and mentors can create courses")
	}

	if err := validateTitle(draft.Title); err != nil {
		return nil, err
	}

	mentorID := auth.ResolveMentorIDOnCreate(caller, draft.MentorID)
	if caller.IsAdmin() {
		if err := s.validateMentor(ctx, mentorID); err != nil {
			return nil, err
		}
	}

	if draft.ApprovalStatus != nil && *draft.ApprovalStatus != string(models.StatusPending) {
		s.logger.Debug().Str("userID", caller.ID).Str("requested", *draft.ApprovalStatus).
			Msg("Ignoring approval status supplied on course creation")
	}

	course := &models.Course{
		Title:          draft.Title,
		Description:    draft.Description,
		MentorID:       mentorID,
		BatchID:        draft.BatchID,
		ZoomID:         draft.ZoomID,
		TeamsID:        draft.TeamsID,
		ApprovalStatus: models.StatusPending,
		VideoURLs:      draft.VideoURLs,
	}
	if course.VideoURLs == nil {
		course.VideoURLs = []models.VideoLink{}
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Str("courseID", course.ID).Str("userID", caller.ID).Str("role", string(caller.Role)).
		Msg("Course created")
	return course, nil
}

// List returns every course the caller may see, optionally narrowed to one status
func (s *courseServiceImpl) List(ctx context.Context, caller auth.Caller, status *models.ApprovalStatus) ([]*models.Course, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewBadRequestError("approval status must be one of: pending, approved, rejected").
			WithDetails(map[string]interface{}{"status": string(*status)})
	}

	return s.courseRepo.List(ctx, repositories.CourseListParams{
		Visibility: auth.VisibilityFilter(caller),
		Status:     status,
	})
}

// GetOne returns a single course. Existing but hidden courses are Forbidden, not NotFound.
func (s *courseServiceImpl) GetOne(ctx context.Context, caller auth.Caller, id string) (*models.Course, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanView(caller, course) {
		return nil, apperrors.NewForbiddenError("you are not allowed to view this course")
	}
	return course, nil
}

// Update applies a partial update to the descriptive fields of a course
func (s *courseServiceImpl) Update(ctx context.Context, caller auth.Caller, id string, patch models.CoursePatch) (*models.Course, error) {
	if patch.ApprovalStatus != nil {
		return nil, apperrors.NewBadRequestError("approvalStatus cannot be changed through update; use the approve endpoint").
			WithDetails(map[string]interface{}{"field": "approvalStatus"})
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewBadRequestError("no fields to update")
	}
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}

	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanUpdate(caller, course) {
		return nil, apperrors.NewForbiddenError("only an admin or the course mentor can update this course")
	}

	if patch.MentorID.Set && !sameMentor(patch.MentorID.Ptr(), course.MentorID) {
		if !auth.CanReassignMentor(caller.Role) {
			return nil, apperrors.NewForbiddenError("only admins can reassign a course to another mentor")
		}
		if err := s.validateMentor(ctx, patch.MentorID.Ptr()); err != nil {
			return nil, err
		}
	}

	updated, err := s.courseRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, courseNotFound(id)
		}
		return nil, err
	}

	s.logger.Info().Str("courseID", id).Str("userID", caller.ID).Msg("Course updated")
	return updated, nil
}

// Delete removes a course; admins only, regardless of ownership
func (s *courseServiceImpl) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if !auth.CanDelete(caller.Role) {
		return apperrors.NewForbiddenError("only admins can delete courses")
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return courseNotFound(id)
		}
		return err
	}

	s.logger.Info().Str("courseID", id).Str("userID", caller.ID).Msg("Course deleted")
	return nil
}

// SetApprovalStatus overwrites the approval status of a course; admins only.
// Any status may follow any other, and writing the current value is still a write.
func (s *courseServiceImpl) SetApprovalStatus(ctx context.Context, caller auth.Caller, id string, status models.ApprovalStatus) (*models.Course, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanApprove(caller.Role) {
		return nil, apperrors.NewForbiddenError("only admins can change the approval status")
	}
	status, err = models.ParseApprovalStatus(string(status))
	if err != nil {
		return nil, err
	}

	updated, err := s.courseRepo.UpdateApprovalStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, courseNotFound(id)
		}
		return nil, err
	}

	s.logger.Info().Str("courseID", id).Str("from", string(course.ApprovalStatus)).Str("to", string(status)).
		Str("userID", caller.ID).Msg("Course approval status changed")
	return updated, nil
}

// ListByMentor returns every course of a mentor, whatever its status
func (s *courseServiceImpl) ListByMentor(ctx context.Context, caller auth.Caller, mentorID string) ([]*models.Course, error) {
	if !auth.CanListByMentor(caller, mentorID) {
		return nil, apperrors.NewForbiddenError("you can only list your own courses")
	}

	return s.courseRepo.List(ctx, repositories.CourseListParams{
		Visibility: auth.Visibility{All: true},
		MentorID:   &mentorID,
	})
}
