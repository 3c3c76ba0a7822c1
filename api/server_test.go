package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer() *Server {
	return NewServer(0)
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func createTestSession(t *testing.T, s *Server) string {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/api/v1/session", SessionCreateRequest{Version: "4.2"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp SessionCreateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.SessionID
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/session/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var status SessionStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.State != string(stateEmptyForTest) {
		t.Errorf("expected empty state for a new session, got %q", status.State)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/v1/session/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("destroy session: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/session/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for destroyed session, got %d", rec.Code)
	}
}

const stateEmptyForTest = "empty"

func TestAssembleDisassembleAndValidate(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/session/"+id+"/asm", AssembleRequest{Line: "nop ; nop"})
	if rec.Code != http.StatusOK {
		t.Fatalf("assemble: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var asmResp AssembleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &asmResp); err != nil {
		t.Fatalf("decode assemble response: %v", err)
	}
	if asmResp.Index != 0 {
		t.Errorf("expected index 0, got %d", asmResp.Index)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/session/"+id+"/word", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("word: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/session/"+id+"/fields/0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fields: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodPost, "/api/v1/session/"+id+"/validate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var valResp ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &valResp); err != nil {
		t.Fatalf("decode validate response: %v", err)
	}
	if !valResp.Valid {
		t.Errorf("expected a valid verdict for a simple nop program, got %+v", valResp)
	}
}

func TestAssembleUnknownSessionReturns404(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, http.MethodPost, "/api/v1/session/does-not-exist/asm", AssembleRequest{Line: "nop ; nop"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", rec.Code)
	}
}

func TestGotoOutOfRange(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s)
	doRequest(t, s, http.MethodPost, "/api/v1/session/"+id+"/asm", AssembleRequest{Line: "nop ; nop"})

	rec := doRequest(t, s, http.MethodPost, "/api/v1/session/"+id+"/goto", GotoRequest{Index: 99})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range goto, got %d", rec.Code)
	}
}

func TestListSessions(t *testing.T) {
	s := newTestServer()
	createTestSession(t, s)
	createTestSession(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if count, _ := resp["count"].(float64); count != 2 {
		t.Errorf("expected 2 sessions, got %v", resp["count"])
	}
}
