// services/announcements.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"padel-club-api/models"
	"padel-club-api/storage"
	"padel-club-api/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ImageBucket stores announcement images under a per-announcement prefix.
type ImageBucket interface {
	Upload(ctx context.Context, key string, file *multipart.FileHeader) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

type NewAnnouncement struct {
	Title     string     `json:"title" validate:"required"`
	Content   string     `json:"content" validate:"required"`
	PublishAt *time.Time `json:"publish_at"`
}

const maxAnnouncementImages = 10

type AnnouncementService struct {
	announcements AnnouncementStore
	bucket        ImageBucket // nil when object storage is not configured
	now           func() time.Time
	log           *zap.SugaredLogger
}

func NewAnnouncementService(announcements AnnouncementStore, bucket ImageBucket, log *zap.SugaredLogger) *AnnouncementService {
	return &AnnouncementService{announcements: announcements, bucket: bucket, now: time.Now, log: log}
}

// List returns published announcements, newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	s.log.Infow("fetching all announcements")
	out, err := s.announcements.ListAnnouncements(ctx, 0)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Announcement{}
	}
	s.log.Infow("retrieved announcements", "count", len(out))
	return out, nil
}

// Create stores an announcement written by author. Uploaded images go to
// the bucket under a fresh prefix which becomes the Images field.
func (s *AnnouncementService) Create(ctx context.Context, author *models.User, in NewAnnouncement, images []*multipart.FileHeader) (*models.Announcement, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if len(images) > maxAnnouncementImages {
		return nil, invalid(fmt.Sprintf("at most %d images per announcement", maxAnnouncementImages))
	}
	s.log.Infow("creating announcement", "title", in.Title, "author_id", author.ID)

	a := &models.Announcement{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: author.ID,
		Status:   models.AnnouncementPublished,
	}
	if in.PublishAt != nil && in.PublishAt.After(s.now()) {
		a.Status = models.AnnouncementScheduled
		a.PublishAt = in.PublishAt
	}

	if len(images) > 0 {
		if s.bucket == nil {
			return nil, invalid("image uploads are not enabled")
		}
		for _, img := range images {
			if _, err := utils.DetectImageType(img); err != nil {
				return nil, invalid(err.Error())
			}
		}
		prefix := imagePrefix(in.Title)
		for i, img := range images {
			ext := strings.ToLower(filepath.Ext(img.Filename))
			if ext == "" {
				ext = ".jpg"
			}
			key := prefix + "/" + uuid.NewString() + ext
			if _, err := s.bucket.Upload(ctx, key, img); err != nil {
				if i > 0 {
					s.discardImages(ctx, prefix)
				}
				return nil, fmt.Errorf("upload image %d: %w", i+1, err)
			}
		}
		a.Images = prefix
	}

	if err := s.announcements.CreateAnnouncement(ctx, a); err != nil {
		if a.Images != "" {
			s.discardImages(ctx, a.Images)
		}
		return nil, err
	}
	s.log.Infow("announcement created", "announcement_id", a.ID, "status", a.Status)
	return a, nil
}

// Images lists the public URLs stored under the announcement's prefix.
func (s *AnnouncementService) Images(ctx context.Context, id uint) ([]string, error) {
	a, err := s.announcements.GetAnnouncement(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("Announcement not found")
	}
	if err != nil {
		return nil, err
	}
	if s.bucket == nil || a.Images == "" {
		return []string{}, nil
	}
	urls, err := s.bucket.List(ctx, a.Images)
	if err != nil {
		return nil, err
	}
	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id uint) error {
	s.log.Infow("attempting to delete announcement", "announcement_id", id)
	a, err := s.announcements.GetAnnouncement(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warnw("announcement not found for deletion", "announcement_id", id)
		return notFound("Announcement not found")
	}
	if err != nil {
		return err
	}
	if err := s.announcements.DeleteAnnouncement(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("Announcement not found")
		}
		return err
	}
	if s.bucket != nil && ownedImagePrefix(a.Images) {
		if err := s.bucket.DeletePrefix(ctx, a.Images); err != nil {
			// the record is gone already; stale objects only cost storage
			s.log.Warnw("failed to delete announcement images", "announcement_id", id, "error", err)
		}
	} else if a.Images != "" {
		s.log.Warnw("skipping image cleanup for unrecognised prefix", "announcement_id", id, "images", a.Images)
	}
	s.log.Infow("announcement deleted", "announcement_id", id)
	return nil
}

// discardImages removes objects uploaded for an announcement that was never stored.
func (s *AnnouncementService) discardImages(ctx context.Context, prefix string) {
	if err := s.bucket.DeletePrefix(ctx, prefix); err != nil {
		s.log.Warnw("failed to discard uploaded images", "prefix", prefix, "error", err)
		return
	}
	s.log.Infow("discarded uploaded images", "prefix", prefix)
}

// PublishDue makes scheduled announcements visible once their time has come.
func (s *AnnouncementService) PublishDue(ctx context.Context) (int64, error) {
	return s.announcements.PublishDueAnnouncements(ctx, s.now())
}

const announcementPrefixRoot = "announcements/"

func imagePrefix(title string) string {
	name := slug.Make(title)
	if name == "" {
		name = "announcement"
	}
	if len(name) > 48 {
		name = strings.TrimRight(name[:48], "-")
	}
	return announcementPrefixRoot + name + "-" + uuid.NewString()
}

// ownedImagePrefix reports whether prefix has the announcements/<slug>-<uuid>
// shape produced by imagePrefix.
func ownedImagePrefix(prefix string) bool {
	rest, ok := strings.CutPrefix(prefix, announcementPrefixRoot)
	if !ok || strings.Contains(rest, "/") {
		return false
	}
	// a canonical uuid is 36 characters and follows the slug's trailing dash
	const idLen = 36
	if len(rest) < idLen+2 || rest[len(rest)-idLen-1] != '-' {
		return false
	}
	name, id := rest[:len(rest)-idLen-1], rest[len(rest)-idLen:]
	if _, err := uuid.Parse(id); err != nil {
		return false
	}
	return slug.IsSlug(name)
}
