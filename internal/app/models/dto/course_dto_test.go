package dto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/pkg/apperrors"
)

func TestParseCoursePatch_AbsentVersusNull(t *testing.T) {
	patch, err := ParseCoursePatch([]byte(`{"title":"Intro","description":null,"zoomId":"z-1"}`))
	require.NoError(t, err)

	require.NotNil(t, patch.Title)
	assert.Equal(t, "Intro", *patch.Title)
	assert.Equal(t, models.NullableString{Set: true, Null: true}, patch.Description)
	assert.Equal(t, models.NullableString{Set: true, Value: "z-1"}, patch.ZoomID)
	assert.False(t, patch.MentorID.Set)
	assert.False(t, patch.BatchID.Set)
	assert.False(t, patch.TeamsID.Set)
	assert.Nil(t, patch.VideoURLs)
	assert.Nil(t, patch.ApprovalStatus)
}

func TestParseCoursePatch_VideoURLs(t *testing.T) {
	patch, err := ParseCoursePatch([]byte(`{"videoUrls":[{"title":"L1","url":"https://v/1"}]}`))
	require.NoError(t, err)
	require.NotNil(t, patch.VideoURLs)
	require.Len(t, *patch.VideoURLs, 1)
	assert.Equal(t, "https://v/1", (*patch.VideoURLs)[0]["url"])

	patch, err = ParseCoursePatch([]byte(`{"videoUrls":null}`))
	require.NoError(t, err)
	require.NotNil(t, patch.VideoURLs)
	assert.Empty(t, *patch.VideoURLs)
}

func TestParseCoursePatch_ApprovalStatusIsCaptured(t *testing.T) {
	patch, err := ParseCoursePatch([]byte(`{"approvalStatus":"approved"}`))
	require.NoError(t, err)
	require.NotNil(t, patch.ApprovalStatus)
	assert.Equal(t, "approved", *patch.ApprovalStatus)
}

func TestParseCoursePatch_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `title=x`},
		{"array body", `[1,2]`},
		{"null body", `null`},
		{"null title", `{"title":null}`},
		{"numeric title", `{"title":5}`},
		{"numeric mentor", `{"mentorId":42}`},
		{"videos not a list", `{"videoUrls":"https://v/1"}`},
		{"unknown field", `{"title":"x","price":10}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCoursePatch([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
		})
	}
}

func TestParseCoursePatch_UnknownFieldsAreListed(t *testing.T) {
	_, err := ParseCoursePatch([]byte(`{"zeta":1,"alpha":2}`))
	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, []string{"alpha", "zeta"}, custom.Details["fields"])
}

func TestParseCoursePatch_EmptyObject(t *testing.T) {
	patch, err := ParseCoursePatch([]byte(`{}`))
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty())
}

func TestNewCourseResponse(t *testing.T) {
	mentor := "m1"
	resp := NewCourseResponse(&models.Course{
		ID:             "c1",
		Title:          "Go",
		MentorID:       &mentor,
		ApprovalStatus: models.StatusPending,
	})
	assert.Equal(t, "pending", resp.ApprovalStatus)
	assert.NotNil(t, resp.VideoURLs)
	assert.Empty(t, resp.VideoURLs)
	assert.Equal(t, "", resp.CreatedAt)

	list := NewCourseListResponse(nil)
	assert.Equal(t, 0, list.Total)
	assert.NotNil(t, list.Courses)
}
