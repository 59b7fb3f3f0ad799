package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inbound-wms-api-server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// uniqueViolation là mã lỗi Postgres khi vi phạm ràng buộc UNIQUE.
const uniqueViolation = "23505"

const pgColumns = `id, po_number, supplier_name, items, request_date, expected_date,
	approval_status, memo, history, attachments, created_at, updated_at`

type PostgresRepository struct {
	pool DBPool
	now  Clock
}

func NewPostgresRepository(pool DBPool, now Clock) *PostgresRepository {
	if now == nil {
		now = time.Now
	}
	return &PostgresRepository{pool: pool, now: now}
}

func scanPostgresRequest(row pgx.Row) (*models.InboundRequest, error) {
	var (
		rec                         models.InboundRequest
		status                      string
		items, history, attachments []byte
	)
	if err := row.Scan(&rec.ID, &rec.PONumber, &rec.SupplierName, &items, &rec.RequestDate, &rec.ExpectedDate,
		&status, &rec.Memo, &history, &attachments, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.ApprovalStatus = models.ApprovalStatus(status)
	if err := decodeJSONColumns(&rec, items, history, attachments); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) Create(ctx context.Context, req *models.InboundRequest) (*models.InboundRequest, error) {
	rec := req.Clone()
	rec.Prepare(r.now())

	items, history, attachments, err := encodeJSONColumns(rec)
	if err != nil {
		return nil, err
	}
	for attempt := 0; ; attempt++ {
		_, err = r.pool.Exec(ctx, `
			INSERT INTO inbound_requests (`+pgColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, rec.ID, rec.PONumber, rec.SupplierName, string(items), rec.RequestDate, rec.ExpectedDate,
			string(rec.ApprovalStatus), rec.Memo, string(history), string(attachments), rec.CreatedAt, rec.UpdatedAt)
		if err == nil {
			return rec, nil
		}
		var pgErr *pgconn.PgError
		if attempt < maxCreateAttempts-1 && errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			rec.ID = models.NewRequestID(r.now())
			continue
		}
		return nil, fmt.Errorf("insert inbound request: %w", err)
	}
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.InboundRequest, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pgColumns+` FROM inbound_requests ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query inbound requests: %w", err)
	}
	defer rows.Close()

	out := []models.InboundRequest{}
	for rows.Next() {
		rec, err := scanPostgresRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.InboundRequest, error) {
	return scanPostgresRequest(r.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM inbound_requests WHERE id=$1`, id))
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus, reason string, at time.Time) (*models.InboundRequest, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Khoá dòng để hai request không cùng chuyển trạng thái từ một trạng thái cũ.
	rec, err := scanPostgresRequest(tx.QueryRow(ctx, `SELECT `+pgColumns+` FROM inbound_requests WHERE id=$1 FOR UPDATE`, id))
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
	if _, err := tx.Exec(ctx, `
		UPDATE inbound_requests
		SET approval_status=$2, memo=$3, history=$4, updated_at=$5
		WHERE id=$1
	`, id, string(rec.ApprovalStatus), rec.Memo, string(history), rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("update inbound request: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inbound_requests WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete inbound request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) AddAttachment(ctx context.Context, id string, attachment models.Attachment) (*models.InboundRequest, error) {
	payload, err := json.Marshal([]models.Attachment{attachment})
	if err != nil {
		return nil, fmt.Errorf("encode attachment: %w", err)
	}
	return scanPostgresRequest(r.pool.QueryRow(ctx, `
		UPDATE inbound_requests
		SET attachments = attachments || $2::jsonb, updated_at=$3
		WHERE id=$1
		RETURNING `+pgColumns, id, string(payload), attachment.UploadedAt))
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inbound_requests`).Scan(&n); err != nil {
		return 0, err
	}
	return int(n), nil
}
