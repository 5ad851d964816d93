package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galeria-midia/backend/pkg/config"
	"github.com/galeria-midia/backend/pkg/db/models"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
	"github.com/galeria-midia/backend/pkg/logger"
)

type mediaRepository interface {
	Create(ctx context.Context, m *models.Media) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	FindByGroup(ctx context.Context, groupID uuid.UUID) ([]models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type groupLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
}

type objectStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) error
	DeleteObject(ctx context.Context, bucket, object string) error
}

// UploadInput carries one multipart file into the service.
type UploadInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// Service exposes media operations.
type Service interface {
	Upload(ctx context.Context, ownerID, groupID uuid.UUID, input UploadInput) (*MediaDTO, error)
	ListByGroup(ctx context.Context, ownerID, groupID uuid.UUID) ([]MediaDTO, error)
	Delete(ctx context.Context, ownerID, mediaID uuid.UUID) error
}

type service struct {
	repo    mediaRepository
	groups  groupLookup
	storage objectStore
	cfg     config.MediaConfig
	logg    *logger.Logger
}

// NewService builds a media service with the provided collaborators.
func NewService(repo mediaRepository, groups groupLookup, storage objectStore, cfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if groups == nil {
		return nil, fmt.Errorf("group lookup required")
	}
	if storage == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &service{repo: repo, groups: groups, storage: storage, cfg: cfg, logg: logg}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFileName strips anything that could escape the object path.
func sanitizeFileName(name string) string {
	cleaned := unsafeKeyChars.ReplaceAllString(name, "_")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// storageKeyFor builds the canonical object path for an upload. The uuid
// prefix keeps same-named uploads from clobbering each other.
func storageKeyFor(groupID uuid.UUID, fileName string) string {
	return fmt.Sprintf("groups/%s/%s-%s", groupID, uuid.NewString(), sanitizeFileName(fileName))
}

func (s *service) Upload(ctx context.Context, ownerID, groupID uuid.UUID, input UploadInput) (*MediaDTO, error) {
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if input.FileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if !isSupportedType(input.ContentType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only image and video uploads are supported")
	}
	if s.cfg.MaxUploadBytes > 0 && input.SizeBytes > s.cfg.MaxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the upload size limit").
			WithDetails(map[string]any{"max_bytes": s.cfg.MaxUploadBytes})
	}

	group, err := s.ownedGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}

	key := storageKeyFor(group.ID, input.FileName)

	body := input.Body
	if s.cfg.MaxUploadBytes > 0 {
		body = io.LimitReader(body, s.cfg.MaxUploadBytes+1)
	}

	if err := s.storage.UploadObject(ctx, "", key, input.ContentType, body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}

	m := &models.Media{
		GroupID:    group.ID,
		FileName:   input.FileName,
		FileType:   input.ContentType,
		StorageKey: key,
		SizeBytes:  input.SizeBytes,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		// the row is the source of truth; drop the orphaned object
		if delErr := s.storage.DeleteObject(ctx, "", key); delErr != nil && s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"storage_key": key})
			s.logg.Warn(logCtx, "media.upload.rollback_failed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save media")
	}

	return FromModel(m), nil
}

func (s *service) ListByGroup(ctx context.Context, ownerID, groupID uuid.UUID) ([]MediaDTO, error) {
	if _, err := s.ownedGroup(ctx, ownerID, groupID); err != nil {
		return nil, err
	}

	list, err := s.repo.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
	}

	dtos := make([]MediaDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, *FromModel(&list[i]))
	}
	return dtos, nil
}

func (s *service) Delete(ctx context.Context, ownerID, mediaID uuid.UUID) error {
	m, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media")
	}

	if _, err := s.ownedGroup(ctx, ownerID, m.GroupID); err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, "", m.StorageKey); err != nil && s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"storage_key": m.StorageKey})
		s.logg.Warn(logCtx, "media.delete.storage_object_failed")
	}

	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media")
	}
	return nil
}

func (s *service) ownedGroup(ctx context.Context, ownerID, groupID uuid.UUID) (*models.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}
	if group.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "group belongs to another user")
	}
	return group, nil
}

func isSupportedType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}
