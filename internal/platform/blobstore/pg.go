package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the part of *pgxpool.Pool the PostgreSQL store uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ querier = (*pgxpool.Pool)(nil)

// PGBlobStore keeps archived reports in the report_archive table.
type PGBlobStore struct {
	db querier
}

// NewPGBlobStore returns a PostgreSQL-backed store.
func NewPGBlobStore(pool *pgxpool.Pool) *PGBlobStore {
	return &PGBlobStore{db: pool}
}

const metadataColumns = `id, file_name, content_type, size, organization_rid, organization_name, pages, hash, created_at, created_by`

func scanMetadata(row pgx.Row) (*BlobMetadata, error) {
	var m BlobMetadata
	err := row.Scan(&m.ID, &m.FileName, &m.ContentType, &m.Size, &m.OrganizationRID,
		&m.OrganizationName, &m.Pages, &m.Hash, &m.CreatedAt, &m.CreatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan report metadata: %w", err)
	}
	return &m, nil
}

func (s *PGBlobStore) Upload(ctx context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	meta, data, err := prepare(meta, content)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(ctx, `INSERT INTO report_archive (`+metadataColumns+`, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		meta.ID, meta.FileName, meta.ContentType, meta.Size, meta.OrganizationRID,
		meta.OrganizationName, meta.Pages, meta.Hash, meta.CreatedAt, meta.CreatedBy, data)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	return &meta, nil
}

// validID rejects ids that could never match, before they reach the uuid column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *PGBlobStore) Download(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	if !validID(id) {
		return nil, nil, ErrBlobNotFound
	}
	var m BlobMetadata
	var content []byte
	err := s.db.QueryRow(ctx, `SELECT `+metadataColumns+`, content FROM report_archive WHERE id = $1`, id).
		Scan(&m.ID, &m.FileName, &m.ContentType, &m.Size, &m.OrganizationRID,
			&m.OrganizationName, &m.Pages, &m.Hash, &m.CreatedAt, &m.CreatedBy, &content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("select report: %w", err)
	}
	return io.NopCloser(bytes.NewReader(content)), &m, nil
}

func (s *PGBlobStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrBlobNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM report_archive WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlobNotFound
	}
	return nil
}

func (s *PGBlobStore) GetMetadata(ctx context.Context, id string) (*BlobMetadata, error) {
	if !validID(id) {
		return nil, ErrBlobNotFound
	}
	return scanMetadata(s.db.QueryRow(ctx, `SELECT `+metadataColumns+` FROM report_archive WHERE id = $1`, id))
}

func (s *PGBlobStore) List(ctx context.Context, params ListParams) ([]*BlobMetadata, int, error) {
	where, args := listFilter(params)

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM report_archive`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	args = append(args, normalizeLimit(params.Limit), params.Offset)
	query := fmt.Sprintf(`SELECT %s FROM report_archive%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		metadataColumns, where, len(args)-1, len(args))
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	items := []*BlobMetadata{}
	for rows.Next() {
		m, err := scanMetadata(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reports: %w", err)
	}
	return items, total, nil
}

// listFilter builds the WHERE clause and its arguments for params.
func listFilter(p ListParams) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if p.OrganizationRID != "" {
		add("organization_rid = $%d", p.OrganizationRID)
	}
	if p.FileName != "" {
		add("file_name ILIKE $%d", "%"+p.FileName+"%")
	}
	if p.CreatedAfter != nil {
		add("created_at >= $%d", *p.CreatedAfter)
	}
	if p.CreatedBefore != nil {
		add("created_at <= $%d", *p.CreatedBefore)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
