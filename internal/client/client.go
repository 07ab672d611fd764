package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"
)

// Client talks to the practice API over HTTP. It doubles as the upload and
// answer-insert backends for a capture controller.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func New(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

// apiError is the wire shape of every non-2xx response.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// CreateSession starts a practice session and returns the server-assigned id.
func (c *Client) CreateSession(ctx context.Context, name, email, skill string) (*model.InterviewSession, error) {
	var out struct {
		Session model.InterviewSession `json:"session"`
	}
	req := service.CreateSessionRequest{Name: name, Email: email, Skill: skill}
	if err := c.postJSON(ctx, "/api/sessions", req, &out); err != nil {
		return nil, err
	}
	return &out.Session, nil
}

// ListQuestions fetches the ordered question list for a skill tier.
func (c *Client) ListQuestions(ctx context.Context, skill string) ([]model.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/questions?skill="+skill, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Questions []model.Question `json:"questions"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

// PutRecording uploads a finalized blob and returns the storage path the
// server filed it under.
func (c *Client) PutRecording(ctx context.Context, sessionID string, questionID uint, blob []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "recording"+util.RecordingExtension)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(blob); err != nil {
		return "", err
	}
	w.WriteField("session_id", sessionID)
	w.WriteField("question_id", strconv.FormatUint(uint64(questionID), 10))
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recordings", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		Path string `json:"path"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	c.log.Debug("recording uploaded", zap.String("path", out.Path), zap.Int("bytes", len(blob)))
	return out.Path, nil
}

// InsertAnswer records the answer row for an uploaded recording.
func (c *Client) InsertAnswer(ctx context.Context, sessionID string, questionID uint, videoPath string, duration int) error {
	req := service.CreateAnswerRequest{
		SessionID:  sessionID,
		QuestionID: questionID,
		VideoPath:  videoPath,
		Duration:   &duration,
	}
	return c.postJSON(ctx, "/api/answers", req, nil)
}

// ProcessSession asks the server to generate feedback and close the session.
func (c *Client) ProcessSession(ctx context.Context, sessionID string) (*service.ProcessResult, error) {
	var out service.ProcessResult
	payload := map[string]string{"sessionId": sessionID}
	if err := c.postJSON(ctx, "/api/process-session", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFeedback fetches the fixed-template summary for a session.
func (c *Client) GetFeedback(ctx context.Context, sessionID string) (*service.SessionSummary, error) {
	var out service.SessionSummary
	payload := map[string]string{"sessionId": sessionID}
	if err := c.postJSON(ctx, "/api/feedback", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
