package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/observability/metrics"
	"city-announcements/internal/repository"

	"github.com/lib/pq"
)

// queryer は *sql.DB と *sql.Tx の両方で動く読み取りインターフェース
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type AnnouncementRepo struct {
	db *sql.DB
}

func NewAnnouncementRepo(db *sql.DB) repository.AnnouncementRepository {
	return &AnnouncementRepo{db: db}
}

// observeQuery feeds the db_query_duration histogram. Call as
// defer observeQuery("list_announcements")().
func observeQuery(operation string) func() {
	start := time.Now()
	return func() {
		metrics.RecordDBQuery(operation, time.Since(start))
	}
}

const announcementColumns = `id, title, content, publication_date, created_at, updated_at`

func (repo *AnnouncementRepo) List(ctx context.Context, filters repository.AnnouncementFilters) ([]*entity.Announcement, error) {
	defer observeQuery("list_announcements")()

	var (
		conds []string
		args  []any
	)
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(title ILIKE $%d OR content ILIKE $%d)`, n, n))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM announcement_categories ac
         WHERE ac.announcement_id = announcements.id AND ac.category_id = $%d)`, len(args)))
	}

	query := `
SELECT ` + announcementColumns + `
FROM announcements`
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nORDER BY updated_at DESC"

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	announcements := make([]*entity.Announcement, 0, 100)
	for rows.Next() {
		var a entity.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content,
			&a.PublicationDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		announcements = append(announcements, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}

	if err := loadCategories(ctx, repo.db, announcements); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return announcements, nil
}

func (repo *AnnouncementRepo) Get(ctx context.Context, id int64) (*entity.Announcement, error) {
	defer observeQuery("get_announcement")()

	const query = `
SELECT ` + announcementColumns + `
FROM announcements
WHERE id = $1
LIMIT 1`
	var a entity.Announcement
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.Title, &a.Content, &a.PublicationDate, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if err := loadCategories(ctx, repo.db, []*entity.Announcement{&a}); err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &a, nil
}

// Create inserts the announcement row and its association rows in a single
// transaction, so an announcement is never visible without its categories.
func (repo *AnnouncementRepo) Create(ctx context.Context, a *entity.Announcement, categoryIDs []int64) error {
	defer observeQuery("insert_announcement")()

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Create: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insert = `
INSERT INTO announcements (title, content, publication_date)
VALUES ($1, $2, $3)
RETURNING id, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, insert, a.Title, a.Content, a.PublicationDate).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("Create: insert announcement: %w", err)
	}

	if err := insertAssociations(ctx, tx, a.ID, categoryIDs); err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Create: commit: %w", err)
	}
	return nil
}

// Update persists field changes and refreshes updated_at. A non-nil
// categoryIDs replaces the full association set (delete-all-then-insert)
// within the same transaction.
func (repo *AnnouncementRepo) Update(ctx context.Context, a *entity.Announcement, categoryIDs []int64) error {
	defer observeQuery("update_announcement")()

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Update: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const update = `
UPDATE announcements
SET title = $1, content = $2, publication_date = $3, updated_at = now()
WHERE id = $4
RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, update,
		a.Title, a.Content, a.PublicationDate, a.ID).Scan(&a.UpdatedAt); err != nil {
		return fmt.Errorf("Update: update announcement: %w", err)
	}

	if categoryIDs != nil {
		const clear = `DELETE FROM announcement_categories WHERE announcement_id = $1`
		if _, err := tx.ExecContext(ctx, clear, a.ID); err != nil {
			return fmt.Errorf("Update: clear associations: %w", err)
		}
		if err := insertAssociations(ctx, tx, a.ID, categoryIDs); err != nil {
			return fmt.Errorf("Update: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Update: commit: %w", err)
	}
	return nil
}

func (repo *AnnouncementRepo) Delete(ctx context.Context, id int64) error {
	defer observeQuery("delete_announcement")()

	// announcement_categories は ON DELETE CASCADE で追従
	const query = `DELETE FROM announcements WHERE id = $1`
	if _, err := repo.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (repo *AnnouncementRepo) Count(ctx context.Context) (int64, error) {
	defer observeQuery("count_announcements")()

	const query = `SELECT COUNT(*) FROM announcements`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

// insertAssociations inserts one join row per category ID via a single
// unnest statement.
func insertAssociations(ctx context.Context, tx *sql.Tx, announcementID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	const insert = `
INSERT INTO announcement_categories (announcement_id, category_id)
SELECT $1, unnest($2::bigint[])`
	if _, err := tx.ExecContext(ctx, insert, announcementID, pq.Array(categoryIDs)); err != nil {
		return fmt.Errorf("insert associations: %w", err)
	}
	return nil
}

// loadCategories fills the flattened category list for every announcement in
// one batched query, avoiding N+1 round trips.
func loadCategories(ctx context.Context, q queryer, announcements []*entity.Announcement) error {
	if len(announcements) == 0 {
		return nil
	}

	byID := make(map[int64]*entity.Announcement, len(announcements))
	ids := make([]int64, 0, len(announcements))
	for _, a := range announcements {
		a.Categories = []entity.Category{}
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	const query = `
SELECT ac.announcement_id, c.id, c.name
FROM announcement_categories ac
INNER JOIN categories c ON c.id = ac.category_id
WHERE ac.announcement_id = ANY($1)
ORDER BY ac.announcement_id, c.name`
	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var annID int64
		var c entity.Category
		if err := rows.Scan(&annID, &c.ID, &c.Name); err != nil {
			return fmt.Errorf("load categories: Scan: %w", err)
		}
		if a, ok := byID[annID]; ok {
			a.Categories = append(a.Categories, c)
		}
	}
	return rows.Err()
}
