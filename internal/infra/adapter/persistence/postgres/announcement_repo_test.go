package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/infra/adapter/persistence/postgres"
	"city-announcements/internal/repository"
)

/* ──────────────────────────────── ヘルパ ──────────────────────────────── */

var testTime = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func announcementRows(anns ...*entity.Announcement) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "title", "content", "publication_date", "created_at", "updated_at",
	})
	for _, a := range anns {
		rows.AddRow(a.ID, a.Title, a.Content, a.PublicationDate, a.CreatedAt, a.UpdatedAt)
	}
	return rows
}

func categoryRows(annID int64, cats ...entity.Category) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"announcement_id", "id", "name"})
	for _, c := range cats {
		rows.AddRow(annID, c.ID, c.Name)
	}
	return rows
}

/* ──────────────────────────────── 1. Get ──────────────────────────────── */

func TestAnnouncementRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := &entity.Announcement{
		ID: 1, Title: "Road closure", Content: "Main St closed",
		PublicationDate: testTime, CreatedAt: testTime, UpdatedAt: testTime,
		Categories: []entity.Category{{ID: 1, Name: "City"}},
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(1)).
		WillReturnRows(announcementRows(want))
	mock.ExpectQuery(`FROM announcement_categories`).
		WithArgs(pq.Array([]int64{1})).
		WillReturnRows(categoryRows(1, entity.Category{ID: 1, Name: "City"}))

	repo := postgres.NewAnnouncementRepo(db)
	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAnnouncementRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(42)).
		WillReturnRows(announcementRows())

	repo := postgres.NewAnnouncementRepo(db)
	got, err := repo.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if got != nil {
		t.Fatalf("Get = %+v, want nil for missing row", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────────── 2. List ──────────────────────────────── */

func TestAnnouncementRepo_List_NoFilters(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	a := &entity.Announcement{
		ID: 1, Title: "Title 1", Content: "c",
		PublicationDate: testTime, CreatedAt: testTime, UpdatedAt: testTime,
	}
	mock.ExpectQuery(`ORDER BY updated_at DESC`).
		WillReturnRows(announcementRows(a))
	mock.ExpectQuery(`FROM announcement_categories`).
		WithArgs(pq.Array([]int64{1})).
		WillReturnRows(categoryRows(1, entity.Category{ID: 2, Name: "Health"}))

	repo := postgres.NewAnnouncementRepo(db)
	got, err := repo.List(context.Background(), repository.AnnouncementFilters{})
	if err != nil || len(got) != 1 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
	if got[0].Categories[0].Name != "Health" {
		t.Errorf("category = %+v, want Health", got[0].Categories)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAnnouncementRepo_List_SearchAndCategory(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	// 検索とカテゴリは AND で結合される
	mock.ExpectQuery(`title ILIKE \$1 OR content ILIKE \$1.*category_id = \$2`).
		WithArgs("%road%", int64(2)).
		WillReturnRows(announcementRows())

	repo := postgres.NewAnnouncementRepo(db)
	catID := int64(2)
	got, err := repo.List(context.Background(), repository.AnnouncementFilters{
		Search:     "road",
		CategoryID: &catID,
	})
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("List len=%d, want 0", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────────── 3. Create ──────────────────────────────── */

func TestAnnouncementRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO announcements`)).
		WithArgs("T", "C", testTime).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), testTime, testTime))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO announcement_categories`)).
		WithArgs(int64(7), pq.Array([]int64{1, 2})).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := postgres.NewAnnouncementRepo(db)
	a := &entity.Announcement{Title: "T", Content: "C", PublicationDate: testTime}
	if err := repo.Create(context.Background(), a, []int64{1, 2}); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if a.ID != 7 {
		t.Errorf("ID = %d, want 7", a.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAnnouncementRepo_Create_RollsBackOnAssociationFailure(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO announcements`)).
		WithArgs("T", "C", testTime).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), testTime, testTime))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO announcement_categories`)).
		WithArgs(int64(7), pq.Array([]int64{1})).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	repo := postgres.NewAnnouncementRepo(db)
	a := &entity.Announcement{Title: "T", Content: "C", PublicationDate: testTime}
	if err := repo.Create(context.Background(), a, []int64{1}); err == nil {
		t.Fatal("Create succeeded, want error")
	}
	// カテゴリ0件の告知が残らないこと（ロールバック）
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────────── 4. Update ──────────────────────────────── */

func TestAnnouncementRepo_Update_ReplacesCategories(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE announcements`)).
		WithArgs("T2", "C2", testTime, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(testTime.Add(time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM announcement_categories`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO announcement_categories`)).
		WithArgs(int64(5), pq.Array([]int64{3})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := postgres.NewAnnouncementRepo(db)
	a := &entity.Announcement{ID: 5, Title: "T2", Content: "C2", PublicationDate: testTime}
	if err := repo.Update(context.Background(), a, []int64{3}); err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if !a.UpdatedAt.After(testTime) {
		t.Errorf("UpdatedAt = %v, want refreshed", a.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAnnouncementRepo_Update_KeepsCategoriesWhenNil(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE announcements`)).
		WithArgs("T2", "C", testTime, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(testTime))
	mock.ExpectCommit()

	repo := postgres.NewAnnouncementRepo(db)
	a := &entity.Announcement{ID: 5, Title: "T2", Content: "C", PublicationDate: testTime}
	if err := repo.Update(context.Background(), a, nil); err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────────── 5. Delete / Count ──────────────────────────────── */

func TestAnnouncementRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM announcements`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := postgres.NewAnnouncementRepo(db)
	if err := repo.Delete(context.Background(), 9); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAnnouncementRepo_Count(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

	repo := postgres.NewAnnouncementRepo(db)
	n, err := repo.Count(context.Background())
	if err != nil || n != 12 {
		t.Fatalf("Count = %d, err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
