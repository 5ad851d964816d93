package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/galeria-midia/backend/internal/view"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
)

type stubViewService struct {
	requested string
	resp      *view.GroupViewDTO
	err       error
}

func (s *stubViewService) ByShareCode(_ context.Context, shareCode string) (*view.GroupViewDTO, error) {
	s.requested = shareCode
	return s.resp, s.err
}

func TestViewByShareCode(t *testing.T) {
	svc := &stubViewService{resp: &view.GroupViewDTO{ID: uuid.New(), Name: "Vacation", ShareCode: "Ab12Cd34"}}
	handler := ViewByShareCode(svc, controllerTestLogger())

	router := chi.NewRouter()
	router.Get("/view/{shareCode}", handler)
	req := httptest.NewRequest(http.MethodGet, "/view/Ab12Cd34", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.requested != "Ab12Cd34" {
		t.Errorf("share code = %q", svc.requested)
	}
	var envelope struct {
		Data view.GroupViewDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Vacation" {
		t.Errorf("name = %q", envelope.Data.Name)
	}
}

func TestViewByShareCodeNotFound(t *testing.T) {
	svc := &stubViewService{err: pkgerrors.New(pkgerrors.CodeNotFound, "group not found")}
	handler := ViewByShareCode(svc, controllerTestLogger())

	router := chi.NewRouter()
	router.Get("/view/{shareCode}", handler)
	req := httptest.NewRequest(http.MethodGet, "/view/ZZZZZZZZ", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
