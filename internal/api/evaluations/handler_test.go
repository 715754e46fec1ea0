package evaluations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/talentos-hr/pdi-backend/internal/models"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	evalsvc "github.com/talentos-hr/pdi-backend/internal/service/evaluation"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

type testEnv struct {
	router *gin.Engine
	db     *repository.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	db := &repository.DB{DB: gdb}
	require.NoError(t, db.AutoMigrate())

	log := logger.New("error", "console", "stderr")
	service := evalsvc.NewService(
		repository.NewEvaluationRepository(db),
		repository.NewTemplateRepository(db),
		repository.NewTagRepository(db),
		log,
	)
	handler := NewHandler(service, nil, log)

	router := gin.New()
	router.POST("/evaluations", handler.Create)
	router.GET("/evaluations/:id", handler.Get)
	router.PUT("/evaluations/:id", handler.Update)
	router.POST("/evaluations/:id/finalize", handler.Finalize)
	router.POST("/templates", handler.CreateTemplate)

	return &testEnv{router: router, db: db}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedTemplate(t *testing.T) uint {
	t.Helper()
	w := e.do(t, http.MethodPost, "/templates", gin.H{"name": "Ciclo Anual"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Template models.EvaluationTemplate `json:"template"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Template.ID
}

func (e *testEnv) createEvaluation(t *testing.T, templateID uint) uint {
	t.Helper()
	w := e.do(t, http.MethodPost, "/evaluations", gin.H{
		"collaborator_id": 1, "reviewer_id": 2, "template_id": templateID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Evaluation models.Evaluation `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Evaluation.ID
}

func TestEvaluationAverageScoreInResponse(t *testing.T) {
	env := setupTestEnv(t)
	env.createEvaluation(t, env.seedTemplate(t))

	// Two scored criteria plus one unscored; the unscored one must not drag
	// the average down.
	w := env.do(t, http.MethodPut, "/evaluations/1", gin.H{
		"scores": []gin.H{
			{"competency_id": 1, "criterion_id": 1, "score": 4},
			{"competency_id": 1, "criterion_id": 2, "score": 5},
			{"competency_id": 2, "criterion_id": 3, "score": 0},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AverageScore float64 `json:"average_score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 4.5, resp.AverageScore, 1e-9)

	w = env.do(t, http.MethodGet, "/evaluations/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 4.5, resp.AverageScore, 1e-9)
}

func TestEvaluationScoreValidation(t *testing.T) {
	env := setupTestEnv(t)
	env.createEvaluation(t, env.seedTemplate(t))

	w := env.do(t, http.MethodPut, "/evaluations/1", gin.H{
		"scores": []gin.H{{"competency_id": 1, "criterion_id": 1, "score": 6}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinalizeLocksEvaluation(t *testing.T) {
	env := setupTestEnv(t)
	env.createEvaluation(t, env.seedTemplate(t))

	w := env.do(t, http.MethodPost, "/evaluations/1/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Evaluation models.Evaluation `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.EvaluationStatusFinalized, resp.Evaluation.Status)
	assert.NotNil(t, resp.Evaluation.Date)

	// Finalized evaluations reject both edits and a second finalize.
	w = env.do(t, http.MethodPut, "/evaluations/1", gin.H{"notes": "late edit"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/evaluations/1/finalize", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateTemplateRequiresPTTitle(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/templates", gin.H{
		"name": "Ciclo",
		"questions": []gin.H{
			{"title_en": "How was it?", "scope": models.QuestionScopeBoth},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}
