// Package server_test tests the HTTP surface.
package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/book-expert/blog-video-service/internal/core"
	"github.com/book-expert/blog-video-service/internal/pipeline"
	"github.com/book-expert/blog-video-service/internal/server"
	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	gotReq core.PostRequest
	result pipeline.Result
	err    error
}

func (s *stubRunner) Run(_ context.Context, req core.PostRequest) (pipeline.Result, error) {
	s.gotReq = req

	return s.result, s.err
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "test.log")
	require.NoError(t, err)

	return log
}

func doRequest(t *testing.T, srv *server.Server, method, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, req)

	return recorder
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := server.New(&stubRunner{}, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "blog-video-service is running")
}

func TestMakeVideoSuccess(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{
		result: pipeline.Result{VideoURL: "https://blog.example.com/wp-content/uploads/video_42.mp4"},
	}
	srv := server.New(runner, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodPost,
		`{"content": "hello world", "images": [], "title": "T", "post_id": "42"}`)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp map[string]string

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "https://blog.example.com/wp-content/uploads/video_42.mp4", resp["video_url"])

	assert.Equal(t, "42", runner.gotReq.PostID)
	assert.Equal(t, "T", runner.gotReq.Title)
	assert.Equal(t, "hello world", runner.gotReq.Content)
}

func TestMakeVideoEmptyContent(t *testing.T) {
	t.Parallel()

	srv := server.New(&stubRunner{}, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodPost, `{"content": ""}`)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp map[string]string

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "No content provided", resp["error"])
}

func TestMakeVideoWhitespaceContent(t *testing.T) {
	t.Parallel()

	srv := server.New(&stubRunner{}, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodPost, `{"content": "  \n\t "}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestMakeVideoMalformedBodyIsClientError(t *testing.T) {
	t.Parallel()

	srv := server.New(&stubRunner{}, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodPost, `{not json`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestMakeVideoDefaultsTitleAndPostID(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{}
	srv := server.New(runner, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodPost, `{"content": "hello"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Blog Video", runner.gotReq.Title)
	assert.Equal(t, "post", runner.gotReq.PostID)
}

func TestMakeVideoNumericPostID(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{}
	srv := server.New(runner, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodPost, `{"content": "hello", "post_id": 42}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "42", runner.gotReq.PostID)
}

func TestMakeVideoLargePostIDIsNotRounded(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{}
	srv := server.New(runner, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodPost,
		`{"content": "hello", "post_id": 12345678901234567}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "12345678901234567", runner.gotReq.PostID)
}

func TestMakeVideoAssemblyFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{
		err: pipeline.ErrAssembly,
	}
	srv := server.New(runner, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodPost, `{"content": "hello"}`)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var resp map[string]string

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "video creation failed")
}

func TestMakeVideoOtherPipelineFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{
		err: context.DeadlineExceeded,
	}
	srv := server.New(runner, newTestLogger(t))

	recorder := doRequest(t, srv, http.MethodPost, `{"content": "hello"}`)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var resp map[string]string

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp["error"])
}
