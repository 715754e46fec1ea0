package pdi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentos-hr/pdi-backend/internal/models"
	pdisvc "github.com/talentos-hr/pdi-backend/internal/service/pdi"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

type mockPlanService struct {
	plan          *pdisvc.Plan
	planErr       error
	enrollment    *models.Enrollment
	enrollErr     error
	completeErr   error
	action        *models.UserAction
	actionErr     error
	lastRating    int
	lastContentID uint
}

func (m *mockPlanService) GetUserPlan(ctx context.Context, userID uint) (*pdisvc.Plan, error) {
	return m.plan, m.planErr
}

func (m *mockPlanService) Enroll(ctx context.Context, userID, contentID uint, dueDate *time.Time) (*models.Enrollment, error) {
	m.lastContentID = contentID
	return m.enrollment, m.enrollErr
}

func (m *mockPlanService) Complete(ctx context.Context, userID, enrollmentID uint, rating int, comment string) (*models.Enrollment, error) {
	m.lastRating = rating
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	return m.enrollment, nil
}

func (m *mockPlanService) Reschedule(ctx context.Context, userID, enrollmentID uint, dueDate time.Time) (*models.Enrollment, error) {
	return m.enrollment, m.enrollErr
}

func (m *mockPlanService) RemoveEnrollment(ctx context.Context, userID, enrollmentID uint) error {
	return m.enrollErr
}

func (m *mockPlanService) CreateAction(ctx context.Context, userID uint, description string, dueDate time.Time, costCents *int) (*models.UserAction, error) {
	return m.action, m.actionErr
}

func (m *mockPlanService) UpdateAction(ctx context.Context, userID, actionID uint, description string, dueDate time.Time, costCents *int) (*models.UserAction, error) {
	return m.action, m.actionErr
}

func (m *mockPlanService) ToggleAction(ctx context.Context, userID, actionID uint) (*models.UserAction, error) {
	return m.action, m.actionErr
}

func (m *mockPlanService) DeleteAction(ctx context.Context, userID, actionID uint) error {
	return m.actionErr
}

func setupRouter(svc PlanService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, logger.New("error", "console", "stderr"))

	router := gin.New()
	users := router.Group("/users/:id")
	users.GET("/pdi", h.GetPlan)
	users.POST("/enrollments", h.Enroll)
	users.POST("/enrollments/:enrollmentID/complete", h.Complete)
	users.DELETE("/enrollments/:enrollmentID", h.RemoveEnrollment)
	users.POST("/actions", h.CreateAction)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetPlanPartitionsEnrollments(t *testing.T) {
	svc := &mockPlanService{
		plan: &pdisvc.Plan{
			Enrollments: []models.Enrollment{
				{ID: 1, UserID: 7, Status: models.EnrollmentStatusInProgress},
				{ID: 2, UserID: 7, Status: models.EnrollmentStatusCompleted},
			},
			Actions: []models.UserAction{{ID: 1, UserID: 7, Description: "ler o livro de gestão"}},
		},
	}
	router := setupRouter(svc)

	w := doJSON(t, router, http.MethodGet, "/users/7/pdi", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Enrollments []models.Enrollment `json:"enrollments"`
		InProgress  []models.Enrollment `json:"enrollments_in_progress"`
		Completed   []models.Enrollment `json:"enrollments_completed"`
		Actions     []models.UserAction `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Enrollments, 2)
	assert.Len(t, resp.InProgress, 1)
	assert.Len(t, resp.Completed, 1)
	assert.Len(t, resp.Actions, 1)
}

func TestEnrollConflict(t *testing.T) {
	svc := &mockPlanService{enrollErr: pdisvc.ErrAlreadyEnrolled}
	router := setupRouter(svc)

	w := doJSON(t, router, http.MethodPost, "/users/7/enrollments", gin.H{"content_id": 10})
	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestEnrollCreated(t *testing.T) {
	svc := &mockPlanService{enrollment: &models.Enrollment{ID: 1, UserID: 7, ContentID: 10}}
	router := setupRouter(svc)

	w := doJSON(t, router, http.MethodPost, "/users/7/enrollments", gin.H{"content_id": 10})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(10), svc.lastContentID)

	// Missing content_id fails binding.
	w = doJSON(t, router, http.MethodPost, "/users/7/enrollments", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteRatingErrors(t *testing.T) {
	svc := &mockPlanService{completeErr: pdisvc.ErrRatingRequired}
	router := setupRouter(svc)

	w := doJSON(t, router, http.MethodPost, "/users/7/enrollments/1/complete", gin.H{"rating": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, svc.lastRating)

	svc.completeErr = pdisvc.ErrNotOwner
	w = doJSON(t, router, http.MethodPost, "/users/7/enrollments/1/complete", gin.H{"rating": 4})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRemoveEnrollmentNoContent(t *testing.T) {
	svc := &mockPlanService{}
	router := setupRouter(svc)

	w := doJSON(t, router, http.MethodDelete, "/users/7/enrollments/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCreateActionValidation(t *testing.T) {
	svc := &mockPlanService{actionErr: pdisvc.ErrDescriptionTooShort}
	router := setupRouter(svc)

	w := doJSON(t, router, http.MethodPost, "/users/7/actions", gin.H{
		"description": "curto", "due_date": time.Now().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.actionErr = nil
	svc.action = &models.UserAction{ID: 1, UserID: 7, Description: "estudar arquitetura limpa"}
	w = doJSON(t, router, http.MethodPost, "/users/7/actions", gin.H{
		"description": "estudar arquitetura limpa", "due_date": time.Now().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestInvalidUserID(t *testing.T) {
	router := setupRouter(&mockPlanService{})

	w := doJSON(t, router, http.MethodGet, "/users/abc/pdi", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
