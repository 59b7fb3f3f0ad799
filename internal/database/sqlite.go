package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Register sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS inbound_requests (
    seq             INTEGER PRIMARY KEY AUTOINCREMENT,
    id              TEXT NOT NULL UNIQUE,
    po_number       TEXT NOT NULL,
    supplier_name   TEXT NOT NULL,
    items           TEXT NOT NULL,
    request_date    TEXT NOT NULL,
    expected_date   TEXT NOT NULL,
    approval_status TEXT NOT NULL
        CHECK (approval_status IN ('PendingApproval', 'Approved', 'Rejected', 'Received')),
    memo            TEXT NOT NULL DEFAULT '',
    history         TEXT NOT NULL DEFAULT '[]',
    attachments     TEXT NOT NULL DEFAULT '[]',
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL
);`

// OpenSQLite mở (hoặc tạo) file SQLite và đảm bảo schema đã tồn tại.
// Dùng ":memory:" cho test. Chỉ giữ một kết nối vì SQLite ghi tuần tự.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return db, nil
}
