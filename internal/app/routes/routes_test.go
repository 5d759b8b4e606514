package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/lms/internal/app/controllers"
	"github.com/yigit/lms/internal/app/models/dto"
	"github.com/yigit/lms/internal/app/repositories/memory"
	"github.com/yigit/lms/internal/app/services"
	"github.com/yigit/lms/internal/middleware"
	pkgAuth "github.com/yigit/lms/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

type account struct {
	ID    string
	Token string
}

type testAPI struct {
	t       *testing.T
	router  *gin.Engine
	admin   account
	mentor1 account
	mentor2 account
	student account
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	repos := memory.NewRepositories()
	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "lms.test",
	})
	lgr := zerolog.Nop()
	authService := services.NewAuthService(repos.UserRepository, jwtService, services.AuthServiceConfig{
		AllowAdminRegistration: true,
		BcryptCost:             bcrypt.MinCost,
	}, lgr)

	router := gin.New()
	SetupRouter(router, Controllers{
		Auth:   controllers.NewAuthController(authService, lgr),
		User:   controllers.NewUserController(services.NewUserService(repos.UserRepository, lgr)),
		Course: controllers.NewCourseController(services.NewCourseService(repos.CourseRepository, repos.UserRepository, lgr), lgr),
	}, middleware.NewAuthMiddleware(jwtService))

	api := &testAPI{t: t, router: router}
	api.admin = api.register("admin", "admin")
	api.mentor1 = api.register("mentor1", "mentor")
	api.mentor2 = api.register("mentor2", "mentor")
	api.student = api.register("student1", "student")
	return api
}

func (a *testAPI) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (a *testAPI) register(username, role string) account {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@lms.test",
		"password": "correct-horse",
		"fullName": "User " + username,
		"role":     role,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.AuthResponse
	require.NoError(a.t, json.Unmarshal(env.Data, &resp))
	return account{ID: resp.User.ID, Token: resp.Token.AccessToken}
}

func decodeCourse(t *testing.T, env envelope) dto.CourseResponse {
	t.Helper()
	var course dto.CourseResponse
	require.NoError(t, json.Unmarshal(env.Data, &course))
	return course
}

func courseIDs(t *testing.T, env envelope) []string {
	t.Helper()
	var list dto.CourseListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	out := make([]string, 0, len(list.Courses))
	for _, c := range list.Courses {
		out = append(out, c.ID)
	}
	return out
}

func TestCourseRoutesRequireBearerToken(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/courses"},
		{http.MethodGet, "/api/v1/courses"},
		{http.MethodGet, "/api/v1/courses/some-id"},
		{http.MethodPut, "/api/v1/courses/some-id"},
		{http.MethodDelete, "/api/v1/courses/some-id"},
		{http.MethodPut, "/api/v1/courses/some-id/approve"},
		{http.MethodGet, "/api/v1/courses/mentor/some-id"},
	} {
		rec, env := api.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		assert.False(t, env.Success)
	}

	rec, _ := api.do(http.MethodGet, "/api/v1/courses", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApprovalWorkflowOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(http.MethodPost, "/api/v1/courses", api.admin.Token, map[string]interface{}{
		"title":    "Distributed Systems",
		"mentorId": api.mentor1.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeCourse(t, env)
	assert.Equal(t, "pending", created.ApprovalStatus)
	assert.Equal(t, api.mentor1.ID, *created.MentorID)

	rec, env = api.do(http.MethodGet, "/api/v1/courses", api.student.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, courseIDs(t, env), created.ID)

	rec, _ = api.do(http.MethodGet, "/api/v1/courses/"+created.ID, api.student.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(http.MethodPut, "/api/v1/courses/"+created.ID+"/approve", api.mentor1.Token,
		map[string]string{"approvalStatus": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = api.do(http.MethodPut, "/api/v1/courses/"+created.ID+"/approve", api.admin.Token,
		map[string]string{"approvalStatus": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", decodeCourse(t, env).ApprovalStatus)

	rec, env = api.do(http.MethodGet, "/api/v1/courses", api.student.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, courseIDs(t, env), created.ID)

	rec, env = api.do(http.MethodGet, "/api/v1/courses?status=pending", api.admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, courseIDs(t, env), created.ID)

	rec, env = api.do(http.MethodGet, "/api/v1/courses?status=Approved", api.admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, courseIDs(t, env), created.ID)
}

func TestCreateCourseOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(http.MethodPost, "/api/v1/courses", api.mentor1.Token, map[string]interface{}{
		"title":          "Go",
		"mentorId":       api.mentor2.ID,
		"approvalStatus": "approved",
		"videoUrls":      []map[string]string{{"title": "Intro", "url": "https://v/1"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decodeCourse(t, env)
	assert.Equal(t, api.mentor1.ID, *course.MentorID)
	assert.Equal(t, "pending", course.ApprovalStatus)
	require.Len(t, course.VideoURLs, 1)

	rec, _ = api.do(http.MethodPost, "/api/v1/courses", api.student.Token, map[string]string{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// role is checked before the draft
	rec, _ = api.do(http.MethodPost, "/api/v1/courses", api.student.Token, map[string]string{"title": " "})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = api.do(http.MethodPost, "/api/v1/courses", api.admin.Token, map[string]string{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, env.Error.Code)

	rec, _ = api.do(http.MethodPost, "/api/v1/courses", api.admin.Token, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCourseOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	_, env := api.do(http.MethodPost, "/api/v1/courses", api.mentor1.Token, map[string]string{
		"title":       "Go",
		"description": "basics",
	})
	id := decodeCourse(t, env).ID
	path := "/api/v1/courses/" + id

	rec, _ := api.do(http.MethodPut, path, api.mentor2.Token, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = api.do(http.MethodPut, path, api.mentor1.Token, `{"title":"x","description":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeCourse(t, env)
	assert.Equal(t, "x", updated.Title)
	assert.Nil(t, updated.Description)
	assert.Equal(t, "pending", updated.ApprovalStatus)

	rec, env = api.do(http.MethodPut, path, api.admin.Token, map[string]string{"approvalStatus": "approved"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)

	rec, _ = api.do(http.MethodPut, path, api.admin.Token, map[string]string{"price": "10"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(http.MethodPut, path, api.admin.Token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(http.MethodPut, "/api/v1/courses/missing", api.admin.Token, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCourseOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	_, env := api.do(http.MethodPost, "/api/v1/courses", api.mentor1.Token, map[string]string{"title": "Go"})
	path := "/api/v1/courses/" + decodeCourse(t, env).ID

	rec, _ := api.do(http.MethodDelete, path, api.mentor1.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(http.MethodDelete, path, api.admin.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec, _ = api.do(http.MethodDelete, path, api.admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = api.do(http.MethodGet, path, api.admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, env.Error.Code)
}

func TestApproveValidation(t *testing.T) {
	api := newTestAPI(t)
	_, env := api.do(http.MethodPost, "/api/v1/courses", api.mentor1.Token, map[string]string{"title": "Go"})
	path := "/api/v1/courses/" + decodeCourse(t, env).ID + "/approve"

	rec, _ := api.do(http.MethodPut, path, api.admin.Token, map[string]string{"approvalStatus": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(http.MethodPut, path, api.admin.Token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// permission is checked before the status value
	rec, _ = api.do(http.MethodPut, path, api.mentor1.Token, map[string]string{"approvalStatus": "archived"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(http.MethodPut, path, api.mentor1.Token, map[string]string{})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(http.MethodPut, "/api/v1/courses/5a1f0c3e-9a4b-4c52-8e57-0d7d0d3b6f11/approve", api.admin.Token,
		map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = api.do(http.MethodPut, path, api.admin.Token, map[string]string{"approvalStatus": "Approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", decodeCourse(t, env).ApprovalStatus)

	rec, _ = api.do(http.MethodPut, "/api/v1/courses/missing/approve", api.admin.Token,
		map[string]string{"approvalStatus": "approved"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListByMentorOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	_, env := api.do(http.MethodPost, "/api/v1/courses", api.mentor1.Token, map[string]string{"title": "Go"})
	id := decodeCourse(t, env).ID

	rec, env := api.do(http.MethodGet, "/api/v1/courses/mentor/"+api.mentor1.ID, api.mentor1.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{id}, courseIDs(t, env))

	rec, _ = api.do(http.MethodGet, "/api/v1/courses/mentor/"+api.mentor1.ID, api.mentor2.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(http.MethodGet, "/api/v1/courses/mentor/"+api.mentor1.ID, api.student.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = api.do(http.MethodGet, "/api/v1/courses/mentor/"+api.mentor1.ID, api.admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{id}, courseIDs(t, env))
}

func TestAuthRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"identifier": "mentor1@lms.test",
		"password":   "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login dto.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, api.mentor1.ID, login.User.ID)

	rec, _ = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"identifier": "mentor1",
		"password":   "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = api.do(http.MethodGet, "/api/v1/auth/me", login.Token.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "mentor1", me.Username)
	assert.Equal(t, "mentor", me.Role)

	rec, _ = api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "mentor1",
		"email":    "new@lms.test",
		"password": "correct-horse",
		"fullName": "Dup",
		"role":     "mentor",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "newbie",
		"email":    "newbie@lms.test",
		"password": "correct-horse",
		"fullName": "New",
		"role":     "janitor",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(http.MethodGet, "/api/v1/users?role=mentor", api.admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.UserListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 2, list.Total)

	rec, _ = api.do(http.MethodGet, "/api/v1/users", api.mentor1.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(http.MethodGet, "/api/v1/users?role=guest", api.admin.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}
