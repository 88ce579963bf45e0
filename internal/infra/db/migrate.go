package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/categories.sql
var seedCategoriesSQL string

func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS categories (
    id   SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS announcements (
    id               SERIAL PRIMARY KEY,
    title            VARCHAR(255) NOT NULL,
    content          TEXT NOT NULL,
    publication_date TIMESTAMPTZ NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	// 中間テーブル。お知らせ削除時に紐付けも消える
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS announcement_categories (
    announcement_id INTEGER NOT NULL REFERENCES announcements(id) ON DELETE CASCADE,
    category_id     INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    PRIMARY KEY (announcement_id, category_id)
)`); err != nil {
		return err
	}

	// パフォーマンス最適化: インデックス追加
	indexes := []string{
		// ORDER BY updated_at DESC で使用(一覧の既定順)
		`CREATE INDEX IF NOT EXISTS idx_announcements_updated_at ON announcements(updated_at DESC)`,
		// カテゴリ絞り込み用(EXISTS サブクエリ)
		`CREATE INDEX IF NOT EXISTS idx_announcement_categories_category_id ON announcement_categories(category_id)`,
		// カテゴリ名順の一覧用
		`CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// pg_trgm拡張を有効化(ILIKE検索高速化用)
	// エラーを無視(既に存在する場合やスーパーユーザー権限がない場合)
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)

	// ILIKE検索用GINインデックス追加
	searchIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_announcements_title_gin ON announcements USING gin(title gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_announcements_content_gin ON announcements USING gin(content gin_trgm_ops)`,
	}
	for _, idx := range searchIndexes {
		// pg_trgm拡張がない場合はエラーになるため無視
		_, _ = db.Exec(idx)
	}

	// シードデータの投入(重複は自動的にスキップ)
	if _, err := db.Exec(seedCategoriesSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown rolls back the database schema.
// Use with caution: this will delete all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS announcement_categories`,
		`DROP TABLE IF EXISTS announcements`,
		`DROP TABLE IF EXISTS categories`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
