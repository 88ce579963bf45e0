package announcement_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/repository"
	annUC "city-announcements/internal/usecase/announcement"
)

/* ───────── スタブ実装 ───────── */

// 最小限のインメモリ AnnouncementRepository
type stubAnnouncementRepo struct {
	data            map[int64]*entity.Announcement
	nextID          int64
	err             error // 強制的にエラーを返したいとき用
	lastFilters     repository.AnnouncementFilters
	lastCategoryIDs []int64
}

func newAnnouncementStub() *stubAnnouncementRepo {
	return &stubAnnouncementRepo{data: map[int64]*entity.Announcement{}, nextID: 1}
}

func (s *stubAnnouncementRepo) List(_ context.Context, filters repository.AnnouncementFilters) ([]*entity.Announcement, error) {
	s.lastFilters = filters
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Announcement
	for _, v := range s.data {
		out = append(out, v)
	}
	return out, nil
}

func (s *stubAnnouncementRepo) Get(_ context.Context, id int64) (*entity.Announcement, error) {
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *stubAnnouncementRepo) Create(_ context.Context, a *entity.Announcement, categoryIDs []int64) error {
	if s.err != nil {
		return s.err
	}
	a.ID = s.nextID
	s.nextID++
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	a.CreatedAt = now
	a.UpdatedAt = now
	s.lastCategoryIDs = categoryIDs
	cp := *a
	s.data[a.ID] = &cp
	return nil
}

func (s *stubAnnouncementRepo) Update(_ context.Context, a *entity.Announcement, categoryIDs []int64) error {
	if s.err != nil {
		return s.err
	}
	a.UpdatedAt = a.UpdatedAt.Add(time.Minute)
	s.lastCategoryIDs = categoryIDs
	cp := *a
	s.data[a.ID] = &cp
	return nil
}

func (s *stubAnnouncementRepo) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	delete(s.data, id)
	return nil
}

func (s *stubAnnouncementRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.data)), s.err
}

// 固定カテゴリセットを返す CategoryRepository
type stubCategoryRepo struct {
	cats map[int64]string
	err  error
}

func (s *stubCategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	return nil, s.err // テストでは未使用
}

func (s *stubCategoryRepo) ListByIDs(_ context.Context, ids []int64) ([]*entity.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Category
	for _, id := range ids {
		if name, ok := s.cats[id]; ok {
			out = append(out, &entity.Category{ID: id, Name: name})
		}
	}
	return out, nil
}

func (s *stubCategoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.cats)), s.err
}

// ブロードキャスト回数を記録するフェイク
type fakeNotifier struct {
	created []*entity.Announcement
}

func (f *fakeNotifier) AnnouncementCreated(_ context.Context, a *entity.Announcement) {
	f.created = append(f.created, a)
}

func newService() (*annUC.Service, *stubAnnouncementRepo, *fakeNotifier) {
	repo := newAnnouncementStub()
	notifier := &fakeNotifier{}
	svc := &annUC.Service{
		Repo:       repo,
		Categories: &stubCategoryRepo{cats: map[int64]string{1: "City", 2: "Health", 3: "Culture"}},
		Notifier:   notifier,
	}
	return svc, repo, notifier
}

/* ───────── Create ───────── */

func TestService_Create(t *testing.T) {
	svc, repo, notifier := newService()

	got, err := svc.Create(context.Background(), annUC.CreateInput{
		Title:           "T",
		Content:         "C",
		PublicationDate: "06/15/2025 10:00",
		CategoryIDs:     []int64{1},
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	want := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	if !got.PublicationDate.Equal(want) {
		t.Errorf("PublicationDate = %v, want %v", got.PublicationDate, want)
	}
	if len(got.Categories) != 1 || got.Categories[0].ID != 1 || got.Categories[0].Name != "City" {
		t.Errorf("Categories = %+v, want [{1 City}]", got.Categories)
	}
	if len(repo.lastCategoryIDs) != 1 || repo.lastCategoryIDs[0] != 1 {
		t.Errorf("persisted category IDs = %v, want [1]", repo.lastCategoryIDs)
	}

	// 作成成功につきブロードキャストは正確に1回
	if len(notifier.created) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(notifier.created))
	}
	if notifier.created[0].ID != got.ID {
		t.Errorf("broadcast carried ID %d, want %d", notifier.created[0].ID, got.ID)
	}
}

func TestService_Create_UnknownCategoryIDs(t *testing.T) {
	svc, _, notifier := newService()

	_, err := svc.Create(context.Background(), annUC.CreateInput{
		Title:           "T",
		Content:         "C",
		PublicationDate: "06/15/2025 10:00",
		CategoryIDs:     []int64{1, 9999, 8888},
	})
	if err == nil {
		t.Fatal("Create succeeded with unknown category IDs")
	}

	var vErr *entity.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	// 不正なIDは一括で列挙される（1件ずつではない）
	if !strings.Contains(vErr.Message, "9999") || !strings.Contains(vErr.Message, "8888") {
		t.Errorf("message %q does not enumerate all missing IDs", vErr.Message)
	}
	if strings.Contains(vErr.Message, "at least one") {
		t.Errorf("missing-ID error conflated with empty-list error: %q", vErr.Message)
	}
	if len(notifier.created) != 0 {
		t.Errorf("broadcasts = %d, want 0 on failure", len(notifier.created))
	}
}

func TestService_Create_EmptyCategoryIDs(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Create(context.Background(), annUC.CreateInput{
		Title:           "T",
		Content:         "C",
		PublicationDate: "06/15/2025 10:00",
		CategoryIDs:     []int64{},
	})
	var vErr *entity.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	// 最低1カテゴリ規則は独立したエラー
	if !strings.Contains(vErr.Message, "at least one category") {
		t.Errorf("message = %q, want minimum-one-category error", vErr.Message)
	}
}

func TestService_Create_InvalidDate(t *testing.T) {
	svc, _, notifier := newService()

	_, err := svc.Create(context.Background(), annUC.CreateInput{
		Title:           "T",
		Content:         "C",
		PublicationDate: "02/30/2025 10:00",
		CategoryIDs:     []int64{1},
	})
	var vErr *entity.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(notifier.created) != 0 {
		t.Errorf("broadcasts = %d, want 0", len(notifier.created))
	}
}

func TestService_Create_RepoError(t *testing.T) {
	svc, repo, notifier := newService()
	repo.err = errors.New("connection refused")

	_, err := svc.Create(context.Background(), annUC.CreateInput{
		Title:           "T",
		Content:         "C",
		PublicationDate: "06/15/2025 10:00",
		CategoryIDs:     []int64{1},
	})
	if err == nil {
		t.Fatal("Create succeeded with failing repo")
	}
	if len(notifier.created) != 0 {
		t.Errorf("broadcasts = %d, want 0 when persist fails", len(notifier.created))
	}
}

/* ───────── Update ───────── */

func seedAnnouncement(t *testing.T, svc *annUC.Service) *entity.Announcement {
	t.Helper()
	a, err := svc.Create(context.Background(), annUC.CreateInput{
		Title:           "Original",
		Content:         "Body",
		PublicationDate: "06/15/2025 10:00",
		CategoryIDs:     []int64{1, 2},
	})
	if err != nil {
		t.Fatalf("seed Create err=%v", err)
	}
	return a
}

func TestService_Update_TitleOnly(t *testing.T) {
	svc, _, notifier := newService()
	seeded := seedAnnouncement(t, svc)

	title := "Renamed"
	got, err := svc.Update(context.Background(), annUC.UpdateInput{
		ID:    seeded.ID,
		Title: &title,
	})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}

	if got.Title != "Renamed" {
		t.Errorf("Title = %q", got.Title)
	}
	// 省略フィールドはそのまま
	if !got.PublicationDate.Equal(seeded.PublicationDate) {
		t.Errorf("PublicationDate changed: %v → %v", seeded.PublicationDate, got.PublicationDate)
	}
	if len(got.Categories) != 2 {
		t.Errorf("Categories = %+v, want 2 untouched", got.Categories)
	}
	// 更新はブロードキャストしない（作成時の1回のみ）
	if len(notifier.created) != 1 {
		t.Errorf("broadcasts = %d, want 1", len(notifier.created))
	}
}

func TestService_Update_ReplacesCategories(t *testing.T) {
	svc, repo, _ := newService()
	seeded := seedAnnouncement(t, svc)

	got, err := svc.Update(context.Background(), annUC.UpdateInput{
		ID:          seeded.ID,
		CategoryIDs: []int64{3},
	})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}

	// 全置換: 旧カテゴリ [1,2] は消え、[3] のみ
	if len(got.Categories) != 1 || got.Categories[0].ID != 3 {
		t.Errorf("Categories = %+v, want exactly [{3 Culture}]", got.Categories)
	}
	if len(repo.lastCategoryIDs) != 1 || repo.lastCategoryIDs[0] != 3 {
		t.Errorf("persisted replacement = %v, want [3]", repo.lastCategoryIDs)
	}
}

func TestService_Update_EmptyCategoryIDsRejected(t *testing.T) {
	svc, _, _ := newService()
	seeded := seedAnnouncement(t, svc)

	_, err := svc.Update(context.Background(), annUC.UpdateInput{
		ID:          seeded.ID,
		CategoryIDs: []int64{},
	})
	var vErr *entity.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc, _, _ := newService()

	title := "x"
	_, err := svc.Update(context.Background(), annUC.UpdateInput{ID: 404, Title: &title})
	if !errors.Is(err, annUC.ErrAnnouncementNotFound) {
		t.Fatalf("err = %v, want ErrAnnouncementNotFound", err)
	}
}

/* ───────── Get / Delete / List ───────── */

func TestService_Get_NotFound(t *testing.T) {
	svc, _, _ := newService()

	if _, err := svc.Get(context.Background(), 404); !errors.Is(err, annUC.ErrAnnouncementNotFound) {
		t.Fatalf("err = %v, want ErrAnnouncementNotFound", err)
	}
	if _, err := svc.Get(context.Background(), 0); !errors.Is(err, annUC.ErrInvalidAnnouncementID) {
		t.Fatalf("err = %v, want ErrInvalidAnnouncementID", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo, _ := newService()
	seeded := seedAnnouncement(t, svc)

	got, err := svc.Delete(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	// 削除レスポンスは削除されたレコードの平坦化形
	if got.Title != "Original" || len(got.Categories) != 2 {
		t.Errorf("deleted record = %+v", got)
	}
	if _, ok := repo.data[seeded.ID]; ok {
		t.Error("announcement still present after delete")
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc, _, _ := newService()

	if _, err := svc.Delete(context.Background(), 404); !errors.Is(err, annUC.ErrAnnouncementNotFound) {
		t.Fatalf("err = %v, want ErrAnnouncementNotFound", err)
	}
}

func TestService_List_PassesFilters(t *testing.T) {
	svc, repo, _ := newService()

	catID := int64(2)
	if _, err := svc.List(context.Background(), "road", &catID); err != nil {
		t.Fatalf("List err=%v", err)
	}
	if repo.lastFilters.Search != "road" {
		t.Errorf("Search = %q, want road", repo.lastFilters.Search)
	}
	if repo.lastFilters.CategoryID == nil || *repo.lastFilters.CategoryID != 2 {
		t.Errorf("CategoryID = %v, want 2", repo.lastFilters.CategoryID)
	}
}
