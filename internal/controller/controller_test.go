package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/pkg/database"
	"interview_prep_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type testEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	dataDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	dataDir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = dataDir

	sessions := repository.NewSessionRepository(db)
	questions := repository.NewQuestionRepository(db)
	answers := repository.NewAnswerRepository(db)
	feedback := repository.NewFeedbackRepository(db)

	sessionCtl := NewSessionController(service.NewSessionService(sessions))
	questionCtl := NewQuestionController(service.NewQuestionService(questions, nil))
	answerCtl := NewAnswerController(service.NewAnswerService(answers))
	feedbackCtl := NewFeedbackController(service.NewFeedbackService(feedback, answers, sessions))
	recordingCtl := NewRecordingController(service.NewStorageService(cfg))

	router := gin.New()
	api := router.Group("/api")
	api.POST("/sessions", sessionCtl.CreateSession)
	api.GET("/sessions/:id", sessionCtl.GetSession)
	api.GET("/questions", questionCtl.ListQuestions)
	api.GET("/questions/:id", questionCtl.GetQuestion)
	api.POST("/answers", answerCtl.CreateAnswer)
	api.GET("/answers", answerCtl.ListAnswers)
	api.POST("/recordings", recordingCtl.UploadRecording)
	api.POST("/process-session", feedbackCtl.ProcessSession)
	api.POST("/feedback", feedbackCtl.GetFeedback)

	return &testEnv{db: db, router: router, dataDir: dataDir}
}

func (e *testEnv) postJSON(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestCreateSessionDefaultsSkill(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/sessions", `{"name":"Ada","email":"ada@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Session model.InterviewSession `json:"session"`
	}
	decodeBody(t, rec, &body)
	if body.Session.ID == "" {
		t.Fatalf("expected server-assigned session id")
	}
	if body.Session.Skill != "Beginner" {
		t.Fatalf("expected default skill Beginner, got %q", body.Session.Skill)
	}
	if body.Session.StartedAt.IsZero() {
		t.Fatalf("expected started_at to be stamped")
	}
}

func TestGetSessionRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	created := env.postJSON(t, "/api/sessions", `{"name":"Ada","email":"ada@example.com"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.Code)
	}
	var createdBody struct {
		Session model.InterviewSession `json:"session"`
	}
	decodeBody(t, created, &createdBody)

	rec := env.get(t, "/api/sessions/"+createdBody.Session.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Session model.InterviewSession `json:"session"`
	}
	decodeBody(t, rec, &body)
	if body.Session.ID != createdBody.Session.ID || body.Session.Name != "Ada" {
		t.Fatalf("unexpected session %+v", body.Session)
	}
}

func TestGetSessionUnknownIDIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/sessions/no-such-session")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["error"] == "" {
		t.Fatalf("expected error message, got %s", rec.Body.String())
	}
}

func TestListQuestionsOrderedBySkill(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/questions?skill=Beginner")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Questions []model.Question `json:"questions"`
	}
	decodeBody(t, rec, &body)
	if len(body.Questions) != 3 {
		t.Fatalf("expected 3 beginner questions, got %d", len(body.Questions))
	}
	for i := 1; i < len(body.Questions); i++ {
		if body.Questions[i].ID <= body.Questions[i-1].ID {
			t.Fatalf("expected ascending id order, got %v then %v", body.Questions[i-1].ID, body.Questions[i].ID)
		}
	}
	for _, q := range body.Questions {
		if !strings.Contains(strings.ToLower(q.Slug), "beginner") {
			t.Fatalf("unexpected question %q for Beginner", q.Slug)
		}
		if q.TimeLimit <= 0 {
			t.Fatalf("question %q has non-positive time limit", q.Slug)
		}
	}
}

func TestListQuestionsUnknownSkillIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/questions?skill=Wizard")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Questions []model.Question `json:"questions"`
	}
	decodeBody(t, rec, &body)
	if len(body.Questions) != 0 {
		t.Fatalf("expected empty list, got %d questions", len(body.Questions))
	}
}

func TestGetQuestionByID(t *testing.T) {
	env := newTestEnv(t)

	listed := env.get(t, "/api/questions?skill=Beginner")
	var listBody struct {
		Questions []model.Question `json:"questions"`
	}
	decodeBody(t, listed, &listBody)
	if len(listBody.Questions) == 0 {
		t.Fatalf("expected seeded questions")
	}
	want := listBody.Questions[0]

	rec := env.get(t, fmt.Sprintf("/api/questions/%d", want.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Question model.Question `json:"question"`
	}
	decodeBody(t, rec, &body)
	if body.Question.ID != want.ID || body.Question.Slug != want.Slug {
		t.Fatalf("unexpected question %+v, want %+v", body.Question, want)
	}
}

func TestGetQuestionUnknownIDIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/questions/99999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetQuestionRejectsBadID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/questions/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateAnswerRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"no session", `{"question_id":1,"video_path":"a/b.webm","duration":5}`},
		{"no question", `{"session_id":"s1","video_path":"a/b.webm","duration":5}`},
		{"no path", `{"session_id":"s1","question_id":1,"duration":5}`},
		{"no duration", `{"session_id":"s1","question_id":1,"video_path":"a/b.webm"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.postJSON(t, "/api/answers", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var body map[string]string
			decodeBody(t, rec, &body)
			if body["error"] == "" {
				t.Fatalf("expected error message, got %s", rec.Body.String())
			}
		})
	}
}

func TestCreateAnswerPersistsRow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/answers", `{"session_id":"s1","question_id":2,"video_path":"s1/2-x.webm","duration":42}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rows []model.Answer
	if err := env.db.Find(&rows).Error; err != nil {
		t.Fatalf("failed to read answers: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 answer row, got %d", len(rows))
	}
	if rows[0].Duration != 42 || rows[0].VideoPath != "s1/2-x.webm" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
}

func TestAnswersNotDedupedPerQuestion(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		rec := env.postJSON(t, "/api/answers", `{"session_id":"s1","question_id":2,"video_path":"s1/2-x.webm","duration":10}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}

	var count int64
	env.db.Model(&model.Answer{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected both answer rows kept, got %d", count)
	}
}

func TestListAnswersBySession(t *testing.T) {
	env := newTestEnv(t)
	sessionID := seedSessionWithAnswers(t, env, 3)

	rec := env.get(t, "/api/answers?session_id="+sessionID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Answers []model.Answer `json:"answers"`
	}
	decodeBody(t, rec, &body)
	if len(body.Answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(body.Answers))
	}
	for i, a := range body.Answers {
		if a.SessionID != sessionID {
			t.Fatalf("answer %d belongs to %q", i, a.SessionID)
		}
		if i > 0 && a.ID <= body.Answers[i-1].ID {
			t.Fatalf("expected insertion order, got %v then %v", body.Answers[i-1].ID, a.ID)
		}
	}
}

func TestListAnswersRequiresSessionID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/answers")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if !strings.Contains(body["error"], "sessionId") {
		t.Fatalf("expected sessionId in error, got %q", body["error"])
	}
}

func uploadRecording(t *testing.T, env *testEnv, sessionID, questionID string, blob []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "recording.webm")
	if err != nil {
		t.Fatalf("failed to build multipart: %v", err)
	}
	part.Write(blob)
	w.WriteField("session_id", sessionID)
	w.WriteField("question_id", questionID)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/recordings", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadRecordingStoresUnderSessionPrefix(t *testing.T) {
	env := newTestEnv(t)

	blob := append([]byte{0x1A, 0x45, 0xDF, 0xA3}, []byte("webmdata")...)
	rec := uploadRecording(t, env, "sess-9", "4", blob)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Path string `json:"path"`
	}
	decodeBody(t, rec, &body)
	if !strings.HasPrefix(body.Path, "sess-9/4-") || !strings.HasSuffix(body.Path, ".webm") {
		t.Fatalf("unexpected storage path %q", body.Path)
	}
	if strings.Contains(body.Path, ":") {
		t.Fatalf("timestamp not sanitized in %q", body.Path)
	}

	stored, err := os.ReadFile(filepath.Join(env.dataDir, filepath.FromSlash(body.Path)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(stored, blob) {
		t.Fatalf("stored content mismatch: %q", stored)
	}
}

func TestUploadRecordingRejectsEmptyBlob(t *testing.T) {
	env := newTestEnv(t)

	rec := uploadRecording(t, env, "sess-9", "4", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadRecordingRejectsTraversalSessionID(t *testing.T) {
	env := newTestEnv(t)

	blob := append([]byte{0x1A, 0x45, 0xDF, 0xA3}, []byte("webmdata")...)
	for _, sessionID := range []string{"../002", "..", "a/b", `a\b`, "sess.9"} {
		rec := uploadRecording(t, env, sessionID, "4", blob)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for session_id %q, got %d: %s", sessionID, rec.Code, rec.Body.String())
		}
	}

	// Nothing may have been written outside the storage root.
	if _, err := os.Stat(filepath.Join(env.dataDir, "..", "002")); !os.IsNotExist(err) {
		t.Fatalf("file escaped the storage root: %v", err)
	}
}

func TestUploadRecordingRejectsNonMedia(t *testing.T) {
	env := newTestEnv(t)

	rec := uploadRecording(t, env, "sess-9", "4", []byte("just some plain text, definitely not media"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-media upload, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadRecordingRequiresIDs(t *testing.T) {
	env := newTestEnv(t)

	rec := uploadRecording(t, env, "", "4", []byte("x"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session_id, got %d", rec.Code)
	}
}

func seedSessionWithAnswers(t *testing.T, env *testEnv, n int) string {
	t.Helper()
	session := &model.InterviewSession{Name: "Ada", Skill: "Beginner", StartedAt: time.Now()}
	session.ID = "11111111-2222-3333-4444-555555555555"
	if err := env.db.Create(session).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	for i := 0; i < n; i++ {
		a := &model.Answer{
			SessionID:  session.ID,
			QuestionID: uint(i + 1),
			VideoPath:  fmt.Sprintf("%s/%d-x.webm", session.ID, i+1),
			Duration:   10 * (i + 1),
		}
		if err := env.db.Create(a).Error; err != nil {
			t.Fatalf("failed to seed answer: %v", err)
		}
	}
	return session.ID
}

func TestProcessSessionCreatesFeedbackAndCompletes(t *testing.T) {
	env := newTestEnv(t)
	sessionID := seedSessionWithAnswers(t, env, 3)

	rec := env.postJSON(t, "/api/process-session", fmt.Sprintf(`{"sessionId":%q}`, sessionID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body service.ProcessResult
	decodeBody(t, rec, &body)
	if !body.Success {
		t.Fatalf("expected success, got %s", rec.Body.String())
	}
	if body.Warning != "" {
		t.Fatalf("unexpected warning %q", body.Warning)
	}

	var rows []model.Feedback
	if err := env.db.Where("session_id = ?", sessionID).Find(&rows).Error; err != nil {
		t.Fatalf("failed to read feedback: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected one feedback row per answer, got %d", len(rows))
	}
	for _, row := range rows {
		if row.AnswerID == nil {
			t.Fatalf("feedback row not linked to an answer: %+v", row)
		}
		if row.ReadinessScore < 60 || row.ReadinessScore >= 90 {
			t.Fatalf("readiness score %d out of range", row.ReadinessScore)
		}
	}

	var session model.InterviewSession
	if err := env.db.First(&session, "id = ?", sessionID).Error; err != nil {
		t.Fatalf("failed to reload session: %v", err)
	}
	if session.CompletedAt == nil {
		t.Fatalf("expected completed_at to be stamped")
	}
}

func TestProcessSessionUnknownSessionWarns(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/process-session", `{"sessionId":"no-such-session"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body service.ProcessResult
	decodeBody(t, rec, &body)
	if !body.Success || body.Warning == "" {
		t.Fatalf("expected success with warning, got %s", rec.Body.String())
	}
}

func TestProcessSessionRequiresID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/process-session", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProcessSessionAcceptsSnakeCaseKey(t *testing.T) {
	env := newTestEnv(t)
	sessionID := seedSessionWithAnswers(t, env, 1)

	rec := env.postJSON(t, "/api/process-session", fmt.Sprintf(`{"session_id":%q}`, sessionID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFeedbackEndpointReturnsTemplate(t *testing.T) {
	env := newTestEnv(t)
	sessionID := seedSessionWithAnswers(t, env, 1)

	rec := env.postJSON(t, "/api/feedback", fmt.Sprintf(`{"sessionId":%q}`, sessionID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body service.SessionSummary
	decodeBody(t, rec, &body)
	if body.SessionID != sessionID {
		t.Fatalf("expected sessionId echoed, got %q", body.SessionID)
	}
	if len(body.Strengths) == 0 || len(body.Improvements) == 0 {
		t.Fatalf("expected templated feedback lists, got %s", rec.Body.String())
	}
}
