package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

const thumbnailMaxSide = 300

type MediaRepository interface {
	InsertMedia(ctx context.Context, ext repository.RepoExtension, m *model.Media) (*model.Media, error)
	SelectMediaByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Media, error)
	SelectMediaByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID) ([]model.Media, error)
	DeleteMedia(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type MediaService struct {
	log        *zap.Logger
	mediaRepo  MediaRepository
	uploadDir  string
	publicBase string
}

func NewMediaService(log *zap.Logger, mediaRepo MediaRepository, uploadDir, publicBase string) *MediaService {
	return &MediaService{
		log:        log,
		mediaRepo:  mediaRepo,
		uploadDir:  uploadDir,
		publicBase: publicBase,
	}
}

// Upload stores the file on disk and, for images, renders a thumbnail whose
// longest side is capped at 300px.
func (s *MediaService) Upload(ctx context.Context, userID uuid.UUID, filename, mimeType string, data []byte) (*model.Media, error) {
	id := uuid.New()

	ext := filepath.Ext(filename)
	storedName := id.String() + ext
	storedPath := filepath.Join(s.uploadDir, storedName)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	if err := os.WriteFile(storedPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	media := &model.Media{
		ID:       id,
		UserID:   userID,
		Filename: filename,
		MimeType: mimeType,
		Size:     int64(len(data)),
		URL:      fmt.Sprintf("%s/%s", s.publicBase, storedName),
	}

	if strings.HasPrefix(mimeType, "image/") {
		thumbName, err := s.renderThumbnail(id, ext, data)
		if err != nil {
			// A media row without a thumbnail is still useful.
			s.log.Warn("failed to render thumbnail",
				zap.String("media_id", id.String()),
				zap.Error(err),
			)
		} else {
			media.Thumbnail = fmt.Sprintf("%s/%s", s.publicBase, thumbName)
		}
	}

	media, err := s.mediaRepo.InsertMedia(ctx, nil, media)
	if err != nil {
		return nil, fmt.Errorf("failed to insert media: %w", err)
	}

	return media, nil
}

func (s *MediaService) List(ctx context.Context, userID uuid.UUID) ([]model.Media, error) {
	items, err := s.mediaRepo.SelectMediaByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select media: %w", err)
	}

	return items, nil
}

func (s *MediaService) Delete(ctx context.Context, userID, mediaID uuid.UUID) error {
	media, err := s.mediaRepo.SelectMediaByID(ctx, nil, mediaID)
	if err != nil {
		return fmt.Errorf("failed to select media: %w", err)
	}

	if media.UserID != userID {
		return apperrors.ErrMediaAccessDenied
	}

	if err := s.mediaRepo.DeleteMedia(ctx, nil, mediaID); err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	s.removeFiles(media)

	return nil
}

func (s *MediaService) renderThumbnail(id uuid.UUID, ext string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, thumbnailMaxSide, thumbnailMaxSide, imaging.Lanczos)

	thumbName := id.String() + "_thumb" + ext
	thumbPath := filepath.Join(s.uploadDir, thumbName)

	if err := imaging.Save(thumb, thumbPath); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return thumbName, nil
}

func (s *MediaService) removeFiles(media *model.Media) {
	for _, u := range []string{media.URL, media.Thumbnail} {
		if u == "" {
			continue
		}

		name := filepath.Base(u)

		if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to remove file",
				zap.String("file", name),
				zap.Error(err),
			)
		}
	}
}
