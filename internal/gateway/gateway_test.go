package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/florianilch/optsync/internal/edittoken"
	"github.com/florianilch/optsync/internal/mwapi"
	"github.com/florianilch/optsync/internal/useroption"
)

var enwiki = mwapi.Identity{Scheme: "https", Host: "en.wikipedia.org"}

// mockService implements OptionsService for testing.
type mockService struct {
	info *useroption.UserInfo
	err  error

	set     []useroption.Option
	deleted []string
	resets  int
}

func (m *mockService) GetAll(_ context.Context, id mwapi.Identity) (*useroption.UserInfo, error) {
	if id != enwiki {
		return nil, fmt.Errorf("unexpected identity %v", id)
	}
	return m.info, m.err
}

func (m *mockService) Set(_ context.Context, _ mwapi.Identity, opt useroption.Option) error {
	m.set = append(m.set, opt)
	return m.err
}

func (m *mockService) Delete(_ context.Context, _ mwapi.Identity, key string) error {
	m.deleted = append(m.deleted, key)
	return m.err
}

func (m *mockService) Reset(context.Context, mwapi.Identity) error {
	m.resets++
	return m.err
}

func newTestServer(t *testing.T, svc *mockService) *Server {
	t.Helper()
	s, err := New(svc, enwiki)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestGetAll(t *testing.T) {
	svc := &mockService{info: &useroption.UserInfo{
		ID:      7,
		Name:    "Example",
		Options: useroption.OptionValues{"skin": "vector"},
	}}
	s := newTestServer(t, svc)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/options", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("missing request id header")
	}

	var got useroption.UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Example" || got.Options["skin"] != "vector" {
		t.Errorf("unexpected body %+v", got)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantValue  *string
		wantCalled bool
	}{
		{name: "value", body: `{"value":"dark"}`, wantStatus: http.StatusNoContent, wantValue: ptr("dark"), wantCalled: true},
		{name: "empty value", body: `{"value":""}`, wantStatus: http.StatusNoContent, wantValue: ptr(""), wantCalled: true},
		{name: "null value deletes", body: `{"value":null}`, wantStatus: http.StatusNoContent, wantValue: nil, wantCalled: true},
		{name: "missing value", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "number value", body: `{"value":5}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			s := newTestServer(t, svc)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/v1/options/skin", strings.NewReader(tt.body))
			s.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if !tt.wantCalled {
				if len(svc.set) != 0 {
					t.Errorf("service must not be called, got %+v", svc.set)
				}
				return
			}
			if len(svc.set) != 1 {
				t.Fatalf("Set calls = %d", len(svc.set))
			}
			got := svc.set[0]
			if got.Key != "skin" {
				t.Errorf("Key = %q", got.Key)
			}
			switch {
			case tt.wantValue == nil && got.Value != nil:
				t.Errorf("Value = %q, want nil", *got.Value)
			case tt.wantValue != nil && (got.Value == nil || *got.Value != *tt.wantValue):
				t.Errorf("Value = %v, want %q", got.Value, *tt.wantValue)
			}
		})
	}
}

func TestDeleteAndReset(t *testing.T) {
	svc := &mockService{}
	s := newTestServer(t, svc)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/options/skin", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "skin" {
		t.Errorf("deleted = %v", svc.deleted)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/options:reset", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if svc.resets != 1 {
		t.Errorf("resets = %d", svc.resets)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "rejected", err: &useroption.WriteRejectedError{Key: "skin", Status: "failure"}, wantStatus: http.StatusConflict},
		{name: "acquisition", err: &edittoken.AcquisitionError{Identity: enwiki, Err: edittoken.ErrAnonymousSession}, wantStatus: http.StatusUnauthorized},
		{name: "write transport", err: &useroption.WriteError{Key: "skin", Err: errors.New("timeout")}, wantStatus: http.StatusBadGateway},
		{name: "invalid key", err: fmt.Errorf("%w %q", useroption.ErrInvalidKey, "a|b"), wantStatus: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &mockService{err: tt.err})

			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/options/skin", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRejectionBody(t *testing.T) {
	svc := &mockService{err: &useroption.WriteRejectedError{Key: "skin", Status: "failure"}}
	s := newTestServer(t, svc)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/options/skin", strings.NewReader(`{"value":"x"}`)))

	var body RejectionResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Key != "skin" || body.Status != "failure" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestReadErrorIsBadGateway(t *testing.T) {
	svc := &mockService{err: &useroption.ReadError{Identity: enwiki, Err: errors.New("dial tcp")}}
	s := newTestServer(t, svc)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/options", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	const inbound = "0f8fad5b-d9cb-469f-a165-70867728950e"
	s := newTestServer(t, &mockService{info: &useroption.UserInfo{}})

	req := httptest.NewRequest(http.MethodGet, "/v1/options", nil)
	req.Header.Set(requestIDHeader, inbound)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != inbound {
		t.Errorf("request id = %q, want %q", got, inbound)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/options", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got == "not-a-uuid" || got == "" {
		t.Errorf("invalid inbound id must be replaced, got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestStartShutdown(t *testing.T) {
	s := newTestServer(t, &mockService{info: &useroption.UserInfo{}})

	errCh, err := s.Start(context.Background(), "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err, ok := <-errCh; ok && err != nil {
		t.Errorf("unexpected runtime error: %v", err)
	}
}

func ptr(s string) *string { return &s }
