package dto

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/pkg/apperrors"
)

// CreateCourseRequest represents the body of POST /courses
type CreateCourseRequest struct {
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	MentorID    *string            `json:"mentorId"`
	BatchID     *string            `json:"batchId"`
	ZoomID      *string            `json:"zoomId"`
	TeamsID     *string            `json:"teamsId"`
	VideoURLs   []models.VideoLink `json:"videoUrls"`
	// Accepted so clients sending it are not rejected; the stored status is always pending.
	ApprovalStatus *string `json:"approvalStatus"`
}

// ToDraft converts the request into the service input
func (r CreateCourseRequest) ToDraft() models.CourseDraft {
	return models.CourseDraft{
		Title:          r.Title,
		Description:    r.Description,
		MentorID:       r.MentorID,
		BatchID:        r.BatchID,
		ZoomID:         r.ZoomID,
		TeamsID:        r.TeamsID,
		VideoURLs:      r.VideoURLs,
		ApprovalStatus: r.ApprovalStatus,
	}
}

// ApproveCourseRequest represents the body of PUT /courses/{id}/approve.
// The value is checked by the service once the course and the caller's rights are known.
type ApproveCourseRequest struct {
	ApprovalStatus string `json:"approvalStatus" example:"approved"`
}

// CourseFilterRequest represents the query of GET /courses
type CourseFilterRequest struct {
	Status string `form:"status" binding:"omitempty,approvalstatus"`
}

// CourseResponse represents a course as returned by the API
type CourseResponse struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Description    *string            `json:"description"`
	MentorID       *string            `json:"mentorId"`
	BatchID        *string            `json:"batchId"`
	ZoomID         *string            `json:"zoomId"`
	TeamsID        *string            `json:"teamsId"`
	ApprovalStatus string             `json:"approvalStatus" example:"pending"`
	VideoURLs      []models.VideoLink `json:"videoUrls"`
	CreatedAt      string             `json:"createdAt"`
	UpdatedAt      string             `json:"updatedAt"`
}

// CourseListResponse wraps a list of courses
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
	Total   int              `json:"total"`
}

// NewCourseResponse converts a course model into its API form
func NewCourseResponse(c *models.Course) CourseResponse {
	videos := c.VideoURLs
	if videos == nil {
		videos = []models.VideoLink{}
	}
	return CourseResponse{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		MentorID:       c.MentorID,
		BatchID:        c.BatchID,
		ZoomID:         c.ZoomID,
		TeamsID:        c.TeamsID,
		ApprovalStatus: string(c.ApprovalStatus),
		VideoURLs:      videos,
		CreatedAt:      formatTime(c.CreatedAt),
		UpdatedAt:      formatTime(c.UpdatedAt),
	}
}

// NewCourseListResponse converts course models into the list response
func NewCourseListResponse(courses []*models.Course) CourseListResponse {
	out := CourseListResponse{Courses: make([]CourseResponse, 0, len(courses))}
	for _, c := range courses {
		out.Courses = append(out.Courses, NewCourseResponse(c))
	}
	out.Total = len(out.Courses)
	return out
}

var nullLiteral = []byte("null")

// ParseCoursePatch decodes a PUT /courses/{id} body into a patch.
// A key that is absent leaves the field alone; a key set to null clears it.
func ParseCoursePatch(body []byte) (models.CoursePatch, error) {
	var patch models.CoursePatch

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return patch, apperrors.NewBadRequestError("request body must be a JSON object")
	}

	var unknown []string
	for key, value := range raw {
		var err error
		switch key {
		case "title":
			if isNull(value) {
				return patch, fieldError("title", "title cannot be null")
			}
			var title string
			if err = json.Unmarshal(value, &title); err == nil {
				patch.Title = &title
			}
		case "description":
			patch.Description, err = decodeNullable(value)
		case "mentorId":
			patch.MentorID, err = decodeNullable(value)
		case "batchId":
			patch.BatchID, err = decodeNullable(value)
		case "zoomId":
			patch.ZoomID, err = decodeNullable(value)
		case "teamsId":
			patch.TeamsID, err = decodeNullable(value)
		case "videoUrls":
			links := []models.VideoLink{}
			if !isNull(value) {
				err = json.Unmarshal(value, &links)
			}
			if err == nil {
				patch.VideoURLs = &links
			}
		case "approvalStatus":
			status := string(bytes.Trim(value, `"`))
			patch.ApprovalStatus = &status
		default:
			unknown = append(unknown, key)
		}
		if err != nil {
			return patch, fieldError(key, key+" has an invalid type")
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return patch, apperrors.NewBadRequestError("unknown course fields").
			WithDetails(map[string]interface{}{"fields": unknown})
	}
	return patch, nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), nullLiteral)
}

func decodeNullable(value json.RawMessage) (models.NullableString, error) {
	if isNull(value) {
		return models.NullableString{Set: true, Null: true}, nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return models.NullableString{}, err
	}
	return models.NullableString{Set: true, Value: s}, nil
}

func fieldError(field, message string) error {
	return apperrors.NewBadRequestError(message).WithDetails(map[string]interface{}{"field": field})
}
