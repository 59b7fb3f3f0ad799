package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"inbound-wms-api-server/internal/models"
)

const sqliteColumns = `id, po_number, supplier_name, items, request_date, expected_date,
	approval_status, memo, history, attachments, created_at, updated_at`

// SQLiteRepository lưu yêu cầu nhập hàng vào SQLite (modernc.org/sqlite).
// Các mảng items/history/attachments được lưu dưới dạng JSON text.
type SQLiteRepository struct {
	db  *sql.DB
	now Clock
}

func NewSQLiteRepository(db *sql.DB, now Clock) *SQLiteRepository {
	if now == nil {
		now = time.Now
	}
	return &SQLiteRepository{db: db, now: now}
}

type sqlRowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRequest(row sqlRowScanner) (*models.InboundRequest, error) {
	var (
		rec                         models.InboundRequest
		status                      string
		items, history, attachments string
		createdAt, updatedAt        string
	)
	if err := row.Scan(&rec.ID, &rec.PONumber, &rec.SupplierName, &items, &rec.RequestDate, &rec.ExpectedDate,
		&status, &rec.Memo, &history, &attachments, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.ApprovalStatus = models.ApprovalStatus(status)
	if err := decodeJSONColumns(&rec, []byte(items), []byte(history), []byte(attachments)); err != nil {
		return nil, err
	}

	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &rec, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, req *models.InboundRequest) (*models.InboundRequest, error) {
	rec := req.Clone()
	rec.Prepare(r.now())

	items, history, attachments, err := encodeJSONColumns(rec)
	if err != nil {
		return nil, err
	}
	for attempt := 0; ; attempt++ {
		_, err = r.db.ExecContext(ctx, `INSERT INTO inbound_requests (`+sqliteColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.PONumber, rec.SupplierName, string(items), rec.RequestDate, rec.ExpectedDate,
			string(rec.ApprovalStatus), rec.Memo, string(history), string(attachments),
			rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.UpdatedAt.UTC().Format(time.RFC3339Nano))
		if err == nil {
			return rec, nil
		}
		// Trùng id trong cùng một mili giây: sinh id mới và thử lại.
		if attempt < maxCreateAttempts-1 && strings.Contains(err.Error(), "UNIQUE constraint failed") {
			rec.ID = models.NewRequestID(r.now())
			continue
		}
		return nil, fmt.Errorf("insert inbound request: %w", err)
	}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.InboundRequest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM inbound_requests ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query inbound requests: %w", err)
	}
	defer rows.Close()

	out := []models.InboundRequest{}
	for rows.Next() {
		rec, err := scanSQLiteRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.InboundRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM inbound_requests WHERE id = ?`, id)
	return scanSQLiteRequest(row)
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus, reason string, at time.Time) (*models.InboundRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := scanSQLiteRequest(tx.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM inbound_requests WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := rec.ApplyStatus(status, reason, at); err != nil {
		return nil, fmt.Errorf("update status of %s: %w", id, err)
	}
	_, history, _, err := encodeJSONColumns(rec)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE inbound_requests
		SET approval_status = ?, memo = ?, history = ?, updated_at = ? WHERE id = ?`,
		string(rec.ApprovalStatus), rec.Memo, string(history), rec.UpdatedAt.UTC().Format(time.RFC3339Nano), id); err != nil {
		return nil, fmt.Errorf("update inbound request: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inbound_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete inbound request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) AddAttachment(ctx context.Context, id string, attachment models.Attachment) (*models.InboundRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := scanSQLiteRequest(tx.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM inbound_requests WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	rec.Attachments = append(rec.Attachments, attachment)
	rec.UpdatedAt = attachment.UploadedAt
	_, _, attachments, err := encodeJSONColumns(rec)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE inbound_requests SET attachments = ?, updated_at = ? WHERE id = ?`,
		string(attachments), rec.UpdatedAt.UTC().Format(time.RFC3339Nano), id); err != nil {
		return nil, fmt.Errorf("update attachments: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inbound_requests`).Scan(&n)
	return n, err
}

func encodeJSONColumns(rec *models.InboundRequest) (items, history, attachments []byte, err error) {
	if items, err = json.Marshal(nonNil(rec.Items)); err != nil {
		return nil, nil, nil, fmt.Errorf("encode items: %w", err)
	}
	if history, err = json.Marshal(nonNil(rec.History)); err != nil {
		return nil, nil, nil, fmt.Errorf("encode history: %w", err)
	}
	if attachments, err = json.Marshal(nonNil(rec.Attachments)); err != nil {
		return nil, nil, nil, fmt.Errorf("encode attachments: %w", err)
	}
	return items, history, attachments, nil
}

func decodeJSONColumns(rec *models.InboundRequest, items, history, attachments []byte) error {
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(history, &rec.History); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}
	if err := json.Unmarshal(attachments, &rec.Attachments); err != nil {
		return fmt.Errorf("decode attachments: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
