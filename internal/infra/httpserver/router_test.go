package httpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appai "github.com/bryanwahyu/brainscan-api/internal/application/ai"
	"github.com/bryanwahyu/brainscan-api/internal/middleware"
)

type fakeClient struct {
	reply string
	err   error
	got   string
}

func (f *fakeClient) Analyze(_ context.Context, imageBase64 string) (string, error) {
	f.got = imageBase64
	return f.reply, f.err
}

func newTestRouter(client *fakeClient) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := appai.NewService(client, nil, logger)
	return NewRouter(svc, logger, map[string]middleware.HealthChecker{
		"credentials": middleware.CredentialsChecker{APIKey: "k"},
	})
}

func uploadRequest(t *testing.T, field string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "scan.png")
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze-brain-scan", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAnalyze_StructuredReply(t *testing.T) {
	client := &fakeClient{reply: "True|Glioma|High|Scan shows irregular mass|Refer to oncologist"}
	h := newTestRouter(client)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, FileField, []byte("not really a png")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("not really a png")), client.got)
	assert.Equal(t, map[string]any{
		"tumor_present":   true,
		"tumor_type":      "Glioma",
		"confidence":      "High",
		"analysis":        "Scan shows irregular mass",
		"recommendations": "Refer to oncologist",
	}, decodeBody(t, rec))
}

func TestAnalyze_FallbackReply(t *testing.T) {
	client := &fakeClient{reply: "No abnormal tissue detected in this scan."}
	h := newTestRouter(client)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, FileField, []byte{0x00, 0x01}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["tumor_present"])
	assert.Equal(t, "None", body["tumor_type"])
	assert.Equal(t, "Medium", body["confidence"])
	assert.Equal(t, client.reply, body["analysis"])
	assert.Equal(t, "Please consult a neurologist for professional diagnosis.", body["recommendations"])
}

func TestAnalyze_AnyBlobHasAllKeys(t *testing.T) {
	for _, payload := range [][]byte{{}, []byte("hello"), bytes.Repeat([]byte{0xff}, 4096)} {
		h := newTestRouter(&fakeClient{reply: "garbage"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, FileField, payload))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		for _, key := range []string{"tumor_present", "tumor_type", "confidence", "analysis", "recommendations"} {
			assert.Contains(t, body, key)
		}
	}
}

func TestAnalyze_RemoteFailure(t *testing.T) {
	h := newTestRouter(&fakeClient{err: errors.New("status code: 401")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, FileField, []byte("img")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "401")
}

func TestAnalyze_MissingFileField(t *testing.T) {
	client := &fakeClient{reply: "x"}
	h := newTestRouter(client)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "image", []byte("img")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze-brain-scan", strings.NewReader("raw"))
	req.Header.Set("Content-Type", "application/octet-stream")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, client.got)
}

func TestAnalyze_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeClient{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze-brain-scan", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/analyze-brain-scan", nil)
	req.Header.Set("Origin", "https://scans.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Custom-Header")

	rec := httptest.NewRecorder()
	newTestRouter(&fakeClient{}).ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "https://scans.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, http.MethodPost, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_ActualRequest(t *testing.T) {
	req := uploadRequest(t, FileField, []byte("img"))
	req.Header.Set("Origin", "http://localhost:3000")

	rec := httptest.NewRecorder()
	newTestRouter(&fakeClient{reply: "a|b|c|d|e"}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestOperationalEndpoints(t *testing.T) {
	h := newTestRouter(&fakeClient{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "analyses_total")
}
