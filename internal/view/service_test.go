package view

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galeria-midia/backend/pkg/db/models"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
)

type stubShareCodeLookup struct {
	groups map[string]*models.Group
}

func (s *stubShareCodeLookup) FindByShareCode(_ context.Context, code string) (*models.Group, error) {
	group, ok := s.groups[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return group, nil
}

func publicURL(storageKey string) string {
	return "https://storage.googleapis.com/media_files/" + storageKey
}

func TestByShareCode(t *testing.T) {
	group := &models.Group{
		ID:        uuid.New(),
		Name:      "Vacation",
		OwnerID:   uuid.New(),
		ShareCode: "Ab12Cd34",
		Media: []models.Media{
			{ID: uuid.New(), FileName: "sunset.jpg", FileType: "image/jpeg", StorageKey: "groups/g/sunset.jpg"},
		},
	}
	lookup := &stubShareCodeLookup{groups: map[string]*models.Group{group.ShareCode: group}}
	svc, err := NewService(lookup, publicURL)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	dto, err := svc.ByShareCode(context.Background(), "Ab12Cd34")
	if err != nil {
		t.Fatalf("ByShareCode: %v", err)
	}
	if dto.Name != "Vacation" || len(dto.Media) != 1 {
		t.Errorf("dto = %+v", dto)
	}
	if dto.Media[0].URL != "https://storage.googleapis.com/media_files/groups/g/sunset.jpg" {
		t.Errorf("media url = %q", dto.Media[0].URL)
	}
}

func TestByShareCodeValidatesLength(t *testing.T) {
	svc, err := NewService(&stubShareCodeLookup{}, publicURL)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.ByShareCode(context.Background(), "short")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestByShareCodeNotFound(t *testing.T) {
	svc, err := NewService(&stubShareCodeLookup{groups: map[string]*models.Group{}}, publicURL)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.ByShareCode(context.Background(), "ZZZZZZZZ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("error = %v, want not found", err)
	}
}
