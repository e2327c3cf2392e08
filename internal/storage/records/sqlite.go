package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/dbx"
)

// Collection names the three ciphertext tables. The table name is baked into
// SQL text, so only values from this fixed set are accepted.
type Collection string

const (
	CollectionJournals Collection = "journals"
	CollectionTasks    Collection = "tasks"
	CollectionEvents   Collection = "events"
)

// SQLiteRepository implements Repository for one collection using a DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db    dbx.DBTX
	table Collection
}

// NewSQLiteRepository returns a repository bound to the given DBTX and
// collection. It panics on an unknown collection name, which is a wiring
// bug rather than a runtime condition.
func NewSQLiteRepository(db dbx.DBTX, table Collection) *SQLiteRepository {
	switch table {
	case CollectionJournals, CollectionTasks, CollectionEvents:
	default:
		panic(fmt.Sprintf("records: unknown collection %q", table))
	}
	return &SQLiteRepository{db: db, table: table}
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *Record) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s (nonce, ciphertext) VALUES (?, ?)`, r.table)
	res, err := r.db.ExecContext(ctx, query, rec.Nonce, rec.Ciphertext)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", r.table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(`SELECT id, nonce, ciphertext FROM %s ORDER BY id`, r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", r.table, err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.StorageID, &rec.Nonce, &rec.Ciphertext); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, storageID int64) (*Record, error) {
	query := fmt.Sprintf(`SELECT id, nonce, ciphertext FROM %s WHERE id = ?`, r.table)
	row := r.db.QueryRowContext(ctx, query, storageID)

	rec := &Record{}
	if err := row.Scan(&rec.StorageID, &rec.Nonce, &rec.Ciphertext); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *Record) error {
	query := fmt.Sprintf(`UPDATE %s SET nonce = ?, ciphertext = ? WHERE id = ?`, r.table)
	res, err := r.db.ExecContext(ctx, query, rec.Nonce, rec.Ciphertext, rec.StorageID)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.table, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, storageID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table)
	res, err := r.db.ExecContext(ctx, query, storageID)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", r.table, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}
