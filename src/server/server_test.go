package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

type stubResponder struct {
	reply    string
	err      error
	messages []string
}

func (r *stubResponder) Respond(_ context.Context, message string) (string, error) {
	r.messages = append(r.messages, message)
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

func postChat(t *testing.T, s *Server, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestChatReturnsReply(t *testing.T) {
	responder := &stubResponder{reply: "You are free on July 21."}
	s := New(responder, zaptest.NewLogger(t))

	rec := postChat(t, s, `{"message": "Am I free on the 21st?"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["response"]; got != "You are free on July 21." {
		t.Fatalf("response = %q", got)
	}
	if len(responder.messages) != 1 || responder.messages[0] != "Am I free on the 21st?" {
		t.Fatalf("responder saw %v", responder.messages)
	}
}

func TestChatRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"no message field", `{}`},
		{"blank message", `{"message": "   "}`},
		{"malformed json", `{"message": `},
	}
	for _, tc := range cases {
		responder := &stubResponder{reply: "ok"}
		s := New(responder, zaptest.NewLogger(t))

		rec := postChat(t, s, tc.body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", tc.name, rec.Code)
			continue
		}
		if got := decodeBody(t, rec)["error"]; got != "message is required" {
			t.Errorf("%s: error = %q", tc.name, got)
		}
		if len(responder.messages) != 0 {
			t.Errorf("%s: responder called for invalid request", tc.name)
		}
	}
}

func TestChatAgentFailure(t *testing.T) {
	responder := &stubResponder{err: errors.New("model unreachable")}
	s := New(responder, zaptest.NewLogger(t))

	rec := postChat(t, s, `{"message": "hello"}`, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "agent failure" {
		t.Fatalf("error = %q", got)
	}
}

func TestChatRequestID(t *testing.T) {
	s := New(&stubResponder{reply: "ok"}, zaptest.NewLogger(t))

	rec := postChat(t, s, `{"message": "hello"}`, map[string]string{"X-Request-ID": "req-123"})
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("echoed request id = %q", got)
	}

	rec = postChat(t, s, `{"message": "hello"}`, nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestHealthz(t *testing.T) {
	s := New(&stubResponder{}, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody(t, rec)["status"]; got != "healthy" {
		t.Fatalf("status body = %q", got)
	}
}
