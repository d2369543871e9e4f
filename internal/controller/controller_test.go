package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/internal/repository"
	"contenta_dev_v1/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 测试环境 ====================

type testEnv struct {
	router   *gin.Engine
	llm      *service.MockLLM
	outputs  *service.OutputService
	settings *service.SettingsService
	callLogs repository.AICallLogRepository
}

const captionsJSON = `{"captions":["Hello sunshine"],"script":{"title":"Beach","hook":["Look"],"body":["Sand"],"cta":["Follow"]}}`

func setupEnv(t *testing.T, llm *service.MockLLM) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.KVEntry{}, &model.AICallLog{}))

	kv := repository.NewSQLKVRepository(db)
	callLogs := repository.NewAICallLogRepository(db)
	metrics := service.NewMetrics()

	outputs := service.NewOutputService(kv, nil, metrics)
	settings := service.NewSettingsService(kv, nil)

	var llmImpl service.LLM
	if llm != nil {
		llmImpl = llm
	}
	ai := service.NewAIService(llmImpl, callLogs, metrics, nil, time.Second)

	storage, err := service.NewLocalStorage(&service.StorageConfig{BasePath: t.TempDir(), PublicURL: "http://test/exports"})
	require.NoError(t, err)
	exports := service.NewExportService(storage, metrics, nil, service.ExportOptions{Prefix: "contenta"})

	genCtl := NewGenerateController(ai, outputs, settings, nil, nil)
	outCtl := NewOutputController(outputs, exports)
	setCtl := NewSettingsController(settings)
	usageCtl := NewUsageController(callLogs)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/generate", genCtl.Generate)
	api.POST("/vision", genCtl.Vision)
	api.GET("/outputs", outCtl.ListOutputs)
	api.DELETE("/outputs", outCtl.ClearOutputs)
	api.GET("/outputs/favorites", outCtl.ListFavorites)
	api.GET("/outputs/:id", outCtl.GetOutput)
	api.DELETE("/outputs/:id", outCtl.RemoveOutput)
	api.POST("/outputs/:id/favorite", outCtl.ToggleFavorite)
	api.GET("/outputs/:id/export", outCtl.ExportOutput)
	api.POST("/outputs/:id/publish", outCtl.PublishOutput)
	api.GET("/outputs/:id/preview", outCtl.PreviewOutput)
	api.GET("/settings", setCtl.GetSettings)
	api.PUT("/settings", setCtl.SaveSettings)
	api.GET("/usage", usageCtl.GetUsage)

	return &testEnv{router: r, llm: llm, outputs: outputs, settings: settings, callLogs: callLogs}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (e *testEnv) seed(t *testing.T, mode model.OutputMode, text string) *model.OutputRecord {
	t.Helper()
	rec := e.outputs.SaveOutput(context.Background(), model.LocalUserID, model.OutputDraft{
		Mode: mode, Text: text, Platform: "instagram", Structured: json.RawMessage(captionsJSON), Raw: captionsJSON,
	})
	require.NotNil(t, rec)
	return rec
}

// ==================== 生成 ====================

func TestGenerate_Success(t *testing.T) {
	env := setupEnv(t, &service.MockLLM{Responses: []string{captionsJSON}})

	w := performRequest(env.router, http.MethodPost, "/api/generate", map[string]string{"text": "beach day"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Outputs    []struct{ Content string } `json:"outputs"`
		Structured json.RawMessage            `json:"structured"`
		Rendered   string                     `json:"rendered"`
		Record     *model.OutputRecord        `json:"record"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Outputs, 1)
	assert.JSONEq(t, captionsJSON, string(resp.Structured))
	assert.Contains(t, resp.Rendered, "CAPTIONS")
	require.NotNil(t, resp.Record)
	assert.Equal(t, model.ModeGenerate, resp.Record.Mode)
	assert.Equal(t, "casual", resp.Record.Style)
	assert.Equal(t, "instagram", resp.Record.Platform)

	list := env.outputs.LoadOutputs(context.Background(), model.LocalUserID)
	require.Len(t, list, 1)
	assert.Equal(t, "beach day", list[0].Text)
}

func TestGenerate_UsesSavedPreferences(t *testing.T) {
	llm := &service.MockLLM{Responses: []string{"{}"}}
	env := setupEnv(t, llm)
	env.settings.SaveSettings(context.Background(), model.LocalUserID, map[string]interface{}{"style": "witty", "platform": "tiktok"})

	w := performRequest(env.router, http.MethodPost, "/api/generate", map[string]string{"text": "x", "mode": "ideas"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, llm.Prompts[0].Text, "witty")
	assert.Contains(t, llm.Prompts[0].Text, "tiktok")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		llm        *service.MockLLM
		body       interface{}
		wantStatus int
	}{
		{"空请求体", &service.MockLLM{Responses: []string{"{}"}}, nil, http.StatusBadRequest},
		{"空白文本", &service.MockLLM{Responses: []string{"{}"}}, map[string]string{"text": "   "}, http.StatusBadRequest},
		{"未知模式", &service.MockLLM{Responses: []string{"{}"}}, map[string]string{"text": "x", "mode": "poem"}, http.StatusBadRequest},
		{"vision走文本接口", &service.MockLLM{Responses: []string{"{}"}}, map[string]string{"text": "x", "mode": "vision"}, http.StatusBadRequest},
		{"未配置模型", nil, map[string]string{"text": "x"}, http.StatusInternalServerError},
		{"上游失败", &service.MockLLM{Err: assert.AnError}, map[string]string{"text": "x"}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, tt.llm)
			w := performRequest(env.router, http.MethodPost, "/api/generate", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			// 失败不写历史
			assert.Empty(t, env.outputs.LoadOutputs(context.Background(), model.LocalUserID))
		})
	}
}

func TestVision_Upload(t *testing.T) {
	env := setupEnv(t, &service.MockLLM{Responses: []string{`{"captions":["Cute"],"ideas":["Cat facts"]}`}})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "cat.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\nimagedata"))
	_ = mw.WriteField("platform", "x")
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/vision", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	list := env.outputs.LoadOutputs(context.Background(), model.LocalUserID)
	require.Len(t, list, 1)
	rec := list[0]
	assert.Equal(t, model.ModeVision, rec.Mode)
	assert.Equal(t, "Image: cat.png", rec.Text)
	assert.Equal(t, "cat.png", rec.ImageName)
	assert.Equal(t, "x", rec.Platform)
	assert.True(t, strings.HasPrefix(rec.ImageDataURL, "data:image/png;base64,"))
}

func TestVision_MissingImage(t *testing.T) {
	env := setupEnv(t, &service.MockLLM{Responses: []string{"{}"}})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("style", "fun")
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/vision", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== 历史记录 ====================

func TestOutputs_ListAndFilter(t *testing.T) {
	env := setupEnv(t, nil)
	env.seed(t, model.ModeGenerate, "summer sale")
	ideas := env.seed(t, model.ModeIdeas, "coffee")

	var list struct {
		Total int                  `json:"total"`
		Items []model.OutputRecord `json:"items"`
	}
	decode(t, performRequest(env.router, http.MethodGet, "/api/outputs", nil), &list)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, ideas.ID, list.Items[0].ID)

	decode(t, performRequest(env.router, http.MethodGet, "/api/outputs?mode=generate", nil), &list)
	assert.Equal(t, 1, list.Total)

	decode(t, performRequest(env.router, http.MethodGet, "/api/outputs?q=COFFEE", nil), &list)
	assert.Equal(t, 1, list.Total)

	w := performRequest(env.router, http.MethodGet, "/api/outputs?mode=poem", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOutputs_FavoriteGetDelete(t *testing.T) {
	env := setupEnv(t, nil)
	rec := env.seed(t, model.ModeGenerate, "a")

	var got model.OutputRecord
	w := performRequest(env.router, http.MethodPost, "/api/outputs/"+rec.ID+"/favorite", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	assert.True(t, got.Favorite)

	var favs struct {
		Total int `json:"total"`
	}
	decode(t, performRequest(env.router, http.MethodGet, "/api/outputs/favorites", nil), &favs)
	assert.Equal(t, 1, favs.Total)

	assert.Equal(t, http.StatusNotFound, performRequest(env.router, http.MethodPost, "/api/outputs/nope/favorite", nil).Code)
	assert.Equal(t, http.StatusNotFound, performRequest(env.router, http.MethodGet, "/api/outputs/nope", nil).Code)

	decode(t, performRequest(env.router, http.MethodGet, "/api/outputs/"+rec.ID, nil), &got)
	assert.Equal(t, rec.ID, got.ID)

	// 删除是幂等的
	assert.Equal(t, http.StatusOK, performRequest(env.router, http.MethodDelete, "/api/outputs/nope", nil).Code)
	assert.Equal(t, http.StatusOK, performRequest(env.router, http.MethodDelete, "/api/outputs/"+rec.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, performRequest(env.router, http.MethodGet, "/api/outputs/"+rec.ID, nil).Code)
}

func TestOutputs_Clear(t *testing.T) {
	env := setupEnv(t, nil)
	env.seed(t, model.ModeGenerate, "a")
	env.seed(t, model.ModeGenerate, "b")

	assert.Equal(t, http.StatusOK, performRequest(env.router, http.MethodDelete, "/api/outputs", nil).Code)
	assert.Empty(t, env.outputs.LoadOutputs(context.Background(), model.LocalUserID))
}

// ==================== 导出 ====================

func TestExportOutput(t *testing.T) {
	env := setupEnv(t, nil)
	rec := env.seed(t, model.ModeGenerate, "a")

	tests := []struct {
		format      string
		contentType string
		ext         string
	}{
		{"", "text/plain; charset=utf-8", ".txt"},
		{"md", "text/markdown; charset=utf-8", ".md"},
		{"pdf", "application/pdf", ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			w := performRequest(env.router, http.MethodGet, "/api/outputs/"+rec.ID+"/export?format="+tt.format, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			cd := w.Header().Get("Content-Disposition")
			assert.True(t, strings.HasPrefix(cd, `attachment; filename="contenta_generate_`), cd)
			assert.True(t, strings.HasSuffix(cd, tt.ext+`"`), cd)
			assert.NotEmpty(t, w.Body.Bytes())
		})
	}

	assert.Equal(t, http.StatusBadRequest, performRequest(env.router, http.MethodGet, "/api/outputs/"+rec.ID+"/export?format=docx", nil).Code)
	assert.Equal(t, http.StatusNotFound, performRequest(env.router, http.MethodGet, "/api/outputs/nope/export", nil).Code)
}

func TestPublishAndPreview(t *testing.T) {
	env := setupEnv(t, nil)
	rec := env.seed(t, model.ModeGenerate, "a")

	var pub service.PublishResult
	w := performRequest(env.router, http.MethodPost, "/api/outputs/"+rec.ID+"/publish?format=md", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &pub)
	assert.True(t, strings.HasPrefix(pub.URL, "http://test/exports/"))
	assert.Equal(t, "md", pub.Format)

	var preview struct {
		HTML string `json:"html"`
	}
	decode(t, performRequest(env.router, http.MethodGet, "/api/outputs/"+rec.ID+"/preview", nil), &preview)
	assert.Contains(t, preview.HTML, "<h2>Captions</h2>")
}

// ==================== 设置与用量 ====================

func TestSettings(t *testing.T) {
	env := setupEnv(t, nil)

	var resp struct {
		Settings map[string]interface{} `json:"settings"`
		Style    string                 `json:"style"`
		Platform string                 `json:"platform"`
	}
	decode(t, performRequest(env.router, http.MethodGet, "/api/settings", nil), &resp)
	assert.Empty(t, resp.Settings)
	assert.Equal(t, "casual", resp.Style)

	w := performRequest(env.router, http.MethodPut, "/api/settings", map[string]interface{}{"style": "bold", "theme": "dark"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "bold", resp.Style)
	assert.Equal(t, "instagram", resp.Platform)
	assert.Equal(t, "dark", resp.Settings["theme"])

	assert.Equal(t, http.StatusBadRequest, performRequest(env.router, http.MethodPut, "/api/settings", []int{1}).Code)
}

func TestUsage(t *testing.T) {
	env := setupEnv(t, &service.MockLLM{Responses: []string{captionsJSON}})
	performRequest(env.router, http.MethodPost, "/api/generate", map[string]string{"text": "a"})
	performRequest(env.router, http.MethodPost, "/api/generate", map[string]string{"text": "b", "mode": "ideas"})

	var usage struct {
		Days  int `json:"days"`
		Total struct {
			TotalCalls int64 `json:"total_calls"`
		} `json:"total"`
		Modes []repository.ModeUsageStats `json:"modes"`
	}
	w := performRequest(env.router, http.MethodGet, "/api/usage", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &usage)
	assert.Equal(t, 30, usage.Days)
	assert.Equal(t, int64(2), usage.Total.TotalCalls)
	assert.Len(t, usage.Modes, 2)
}
