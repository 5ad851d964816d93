package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/galeria-midia/backend/api/middleware"
	"github.com/galeria-midia/backend/internal/groups"
	"github.com/galeria-midia/backend/internal/media"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
)

type stubGroupService struct {
	created    *groups.CreateGroupDTO
	createResp *groups.GroupDTO
	getResp    *groups.GroupDTO
	getErr     error
	list       []groups.GroupDTO
	deleted    []uuid.UUID
	deleteErr  error
}

func (s *stubGroupService) Create(_ context.Context, input groups.CreateGroupDTO) (*groups.GroupDTO, error) {
	s.created = &input
	return s.createResp, nil
}

func (s *stubGroupService) ListByOwner(_ context.Context, _ uuid.UUID) ([]groups.GroupDTO, error) {
	return s.list, nil
}

func (s *stubGroupService) GetByID(_ context.Context, _, _ uuid.UUID) (*groups.GroupDTO, error) {
	return s.getResp, s.getErr
}

func (s *stubGroupService) Delete(_ context.Context, _, groupID uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, groupID)
	return nil
}

func testMediaURL(storageKey string) string {
	return "https://storage.googleapis.com/media_files/" + storageKey
}

func authedRequest(method, path string, body []byte, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestGroupCreate(t *testing.T) {
	svc := &stubGroupService{createResp: &groups.GroupDTO{Name: "Vacation", ShareCode: "Ab12Cd34"}}
	handler := GroupCreate(svc, controllerTestLogger())

	userID := uuid.New()
	body, _ := json.Marshal(map[string]string{"name": "Vacation"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/groups", body, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created == nil || svc.created.OwnerID != userID || svc.created.Name != "Vacation" {
		t.Fatalf("service input = %+v", svc.created)
	}
}

func TestGroupCreateRequiresAuth(t *testing.T) {
	svc := &stubGroupService{}
	handler := GroupCreate(svc, controllerTestLogger())

	body, _ := json.Marshal(map[string]string{"name": "Vacation"})
	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestGroupCreateValidatesName(t *testing.T) {
	svc := &stubGroupService{}
	handler := GroupCreate(svc, controllerTestLogger())

	body, _ := json.Marshal(map[string]string{"name": ""})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/groups", body, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestGroupGetResolvesMediaURLs(t *testing.T) {
	groupID := uuid.New()
	svc := &stubGroupService{getResp: &groups.GroupDTO{
		ID: groupID,
		Media: []media.MediaDTO{
			{FileName: "sunset.jpg", StorageKey: "groups/g/sunset.jpg"},
		},
	}}
	handler := GroupGet(svc, controllerTestLogger(), testMediaURL)

	router := chi.NewRouter()
	router.Get("/groups/{groupId}", handler)
	req := authedRequest(http.MethodGet, "/groups/"+groupID.String(), nil, uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data groups.GroupDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := envelope.Data.Media[0].URL; got != "https://storage.googleapis.com/media_files/groups/g/sunset.jpg" {
		t.Errorf("media url = %q", got)
	}
}

func TestGroupGetInvalidID(t *testing.T) {
	handler := GroupGet(&stubGroupService{}, controllerTestLogger(), testMediaURL)

	router := chi.NewRouter()
	router.Get("/groups/{groupId}", handler)
	req := authedRequest(http.MethodGet, "/groups/not-a-uuid", nil, uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestGroupDeleteForbidden(t *testing.T) {
	svc := &stubGroupService{deleteErr: pkgerrors.New(pkgerrors.CodeForbidden, "group belongs to another user")}
	handler := GroupDelete(svc, controllerTestLogger())

	router := chi.NewRouter()
	router.Delete("/groups/{groupId}", handler)
	req := authedRequest(http.MethodDelete, "/groups/"+uuid.NewString(), nil, uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestGroupDelete(t *testing.T) {
	svc := &stubGroupService{}
	handler := GroupDelete(svc, controllerTestLogger())

	groupID := uuid.New()
	router := chi.NewRouter()
	router.Delete("/groups/{groupId}", handler)
	req := authedRequest(http.MethodDelete, "/groups/"+groupID.String(), nil, uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != groupID {
		t.Errorf("deleted = %v", svc.deleted)
	}
}
