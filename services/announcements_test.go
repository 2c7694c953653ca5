package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"padel-club-api/models"
	"padel-club-api/storage/storetest"
)

type fakeBucket struct {
	objects   map[string]string
	deleted   []string
	deleteErr error
	failAfter int // uploads allowed before Upload fails; 0 means never fail
	uploads   int
}

func newFakeBucket() *fakeBucket { return &fakeBucket{objects: map[string]string{}} }

func (b *fakeBucket) Upload(_ context.Context, key string, file *multipart.FileHeader) (string, error) {
	if b.failAfter > 0 && b.uploads >= b.failAfter {
		return "", errors.New("upload refused")
	}
	b.uploads++
	url := "https://cdn.test/" + key
	b.objects[key] = url
	return url, nil
}

func (b *fakeBucket) List(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for k, url := range b.objects {
		if strings.HasPrefix(k, prefix+"/") {
			out = append(out, url)
		}
	}
	return out, nil
}

func (b *fakeBucket) DeletePrefix(_ context.Context, prefix string) error {
	b.deleted = append(b.deleted, prefix)
	if b.deleteErr != nil {
		return b.deleteErr
	}
	for k := range b.objects {
		if strings.HasPrefix(k, strings.TrimSuffix(prefix, "/")+"/") {
			delete(b.objects, k)
		}
	}
	return nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// fileHeaders builds n multipart file headers the way a request would.
func fileHeaders(t *testing.T, n int) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for i := 0; i < n; i++ {
		fw, err := w.CreateFormFile("images", "court.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(pngHeader)
	}
	w.Close()
	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	return form.File["images"]
}

func TestCreateAnnouncementPublishesImmediately(t *testing.T) {
	st := storetest.New()
	svc := NewAnnouncementService(st, nil, nopLog)
	ctx := context.Background()
	admin := &models.User{ID: 1, IsAdmin: true}

	a, err := svc.Create(ctx, admin, NewAnnouncement{Title: "Courts closed", Content: "Maintenance on Monday"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Status != models.AnnouncementPublished || a.AuthorID != 1 {
		t.Fatalf("unexpected announcement %+v", a)
	}

	_, err = svc.Create(ctx, admin, NewAnnouncement{Title: "", Content: "x"}, nil)
	requireKind(t, err, KindValidation, "")

	_, err = svc.Create(ctx, admin, NewAnnouncement{Title: "Pics", Content: "x"}, fileHeaders(t, 1))
	requireKind(t, err, KindValidation, "image uploads are not enabled")
}

func TestScheduledAnnouncementHiddenUntilDue(t *testing.T) {
	st := storetest.New()
	svc := NewAnnouncementService(st, nil, nopLog)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	st.Now = svc.now

	at := now.Add(2 * time.Hour)
	a, err := svc.Create(ctx, &models.User{ID: 1}, NewAnnouncement{Title: "Open day", Content: "Come", PublishAt: &at}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Status != models.AnnouncementScheduled {
		t.Fatalf("status = %q, want scheduled", a.Status)
	}

	list, _ := svc.List(ctx)
	if len(list) != 0 {
		t.Fatalf("scheduled announcement visible early: %+v", list)
	}
	if n, _ := svc.PublishDue(ctx); n != 0 {
		t.Fatalf("published %d before due", n)
	}

	now = at.Add(time.Minute)
	n, err := svc.PublishDue(ctx)
	if err != nil || n != 1 {
		t.Fatalf("PublishDue = %d, %v", n, err)
	}
	list, _ = svc.List(ctx)
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("expected the published announcement, got %+v", list)
	}
}

func TestAnnouncementImages(t *testing.T) {
	st := storetest.New()
	bucket := newFakeBucket()
	svc := NewAnnouncementService(st, bucket, nopLog)
	ctx := context.Background()

	a, err := svc.Create(ctx, &models.User{ID: 1}, NewAnnouncement{Title: "Summer Cup!", Content: "Photos"}, fileHeaders(t, 2))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(a.Images, "announcements/summer-cup-") {
		t.Fatalf("unexpected prefix %q", a.Images)
	}
	urls, err := svc.Images(ctx, a.ID)
	if err != nil {
		t.Fatalf("Images: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("urls = %v, want 2", urls)
	}

	_, err = svc.Create(ctx, &models.User{ID: 1}, NewAnnouncement{Title: "Too many", Content: "x"}, fileHeaders(t, 11))
	requireKind(t, err, KindValidation, "")

	bucket.deleteErr = errors.New("r2 unavailable")
	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete should succeed even if image cleanup fails: %v", err)
	}
	if len(bucket.deleted) != 1 || bucket.deleted[0] != a.Images {
		t.Fatalf("deleted prefixes = %v", bucket.deleted)
	}
	_, err = svc.Images(ctx, a.ID)
	requireKind(t, err, KindNotFound, "Announcement not found")
	requireKind(t, svc.Delete(ctx, a.ID), KindNotFound, "Announcement not found")
}

func TestDeleteOnlyRemovesOwnImages(t *testing.T) {
	st := storetest.New()
	bucket := newFakeBucket()
	svc := NewAnnouncementService(st, bucket, nopLog)
	ctx := context.Background()
	author := &models.User{ID: 1}

	withImages, err := svc.Create(ctx, author, NewAnnouncement{Title: "Courts", Content: "New glass"}, fileHeaders(t, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// records whose images field is the shared root or reaches outside a
	// generated prefix must never reach DeletePrefix
	for _, images := range []string{"announcements/", withImages.Images + "/..", "announcements/courts-not-a-uuid"} {
		rogue := &models.Announcement{Title: "rogue", Content: "x", Images: images, AuthorID: 1, Status: models.AnnouncementPublished}
		if err := st.CreateAnnouncement(ctx, rogue); err != nil {
			t.Fatalf("seed rogue: %v", err)
		}
		if err := svc.Delete(ctx, rogue.ID); err != nil {
			t.Fatalf("Delete rogue %q: %v", images, err)
		}
	}
	if len(bucket.deleted) != 0 {
		t.Fatalf("DeletePrefix called with %v", bucket.deleted)
	}
	urls, err := svc.Images(ctx, withImages.ID)
	if err != nil || len(urls) != 1 {
		t.Fatalf("images of untouched announcement = %v, %v", urls, err)
	}
}

func TestCreateIgnoresClientImagesField(t *testing.T) {
	st := storetest.New()
	svc := NewAnnouncementService(st, newFakeBucket(), nopLog)

	var in NewAnnouncement
	raw := `{"title":"Ladder","content":"Round 3","images":"announcements/"}`
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}
	a, err := svc.Create(context.Background(), &models.User{ID: 1}, in, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Images != "" {
		t.Fatalf("images = %q, want empty", a.Images)
	}
}

func TestOwnedImagePrefix(t *testing.T) {
	generated := imagePrefix("Summer Cup!")
	id := generated[len(generated)-36:]
	cases := []struct {
		prefix string
		want   bool
	}{
		{generated, true},
		{imagePrefix(""), true},
		{imagePrefix(strings.Repeat("a", 80)), true},
		{"", false},
		{"announcements", false},
		{"announcements/", false},
		{generated + "/", false},
		{generated + "/x", false},
		{"announcements/summer-cup", false},
		{"announcements/-" + id, false},
		{"games/summer-cup-" + id, false},
	}
	for _, tc := range cases {
		if got := ownedImagePrefix(tc.prefix); got != tc.want {
			t.Errorf("ownedImagePrefix(%q) = %v, want %v", tc.prefix, got, tc.want)
		}
	}
}

func TestFailedCreateDiscardsUploadedImages(t *testing.T) {
	st := storetest.New()
	bucket := newFakeBucket()
	bucket.failAfter = 2
	svc := NewAnnouncementService(st, bucket, nopLog)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.User{ID: 1}, NewAnnouncement{Title: "Gallery", Content: "x"}, fileHeaders(t, 3))
	if err == nil {
		t.Fatal("expected upload failure")
	}
	if len(bucket.deleted) != 1 || !strings.HasPrefix(bucket.deleted[0], "announcements/gallery-") {
		t.Fatalf("deleted prefixes = %v", bucket.deleted)
	}
	if len(bucket.objects) != 0 {
		t.Fatalf("objects left behind: %v", bucket.objects)
	}
	list, _ := svc.List(ctx)
	if len(list) != 0 {
		t.Fatalf("announcement stored despite failure: %+v", list)
	}
}

type failingAnnouncementStore struct {
	*storetest.Store
}

func (failingAnnouncementStore) CreateAnnouncement(context.Context, *models.Announcement) error {
	return errors.New("insert failed")
}

func TestFailedInsertDiscardsUploadedImages(t *testing.T) {
	bucket := newFakeBucket()
	svc := NewAnnouncementService(failingAnnouncementStore{storetest.New()}, bucket, nopLog)

	_, err := svc.Create(context.Background(), &models.User{ID: 1}, NewAnnouncement{Title: "Gallery", Content: "x"}, fileHeaders(t, 2))
	if err == nil {
		t.Fatal("expected insert failure")
	}
	if len(bucket.deleted) != 1 || len(bucket.objects) != 0 {
		t.Fatalf("deleted = %v, objects left = %v", bucket.deleted, bucket.objects)
	}
}

func TestListAnnouncementsNewestFirst(t *testing.T) {
	st := storetest.New()
	svc := NewAnnouncementService(st, nil, nopLog)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Hour)
		st.Now = func() time.Time { return at }
		if _, err := svc.Create(ctx, &models.User{ID: 1}, NewAnnouncement{Title: title, Content: "x"}, nil); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].Title != "third" || list[2].Title != "first" {
		t.Fatalf("unexpected order %+v", list)
	}
}
