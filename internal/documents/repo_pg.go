package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

var documentColumns = []string{
	"id", "user_id", "file_name", "storage_uri", "storage_key", "extracted_text",
	"mime_type", "size_bytes", "confidence", "entity_count", "created_at", "updated_at",
}

var sortColumns = map[SortField]string{
	SortCreatedAt: "created_at",
	SortUpdatedAt: "updated_at",
	SortFileName:  "file_name",
	SortSizeBytes: "size_bytes",
}

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var extracted sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.StorageURI,
		&doc.StorageKey,
		&extracted,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.Confidence,
		&doc.EntityCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if extracted.Valid {
		doc.ExtractedText = extracted.String
	}
	return doc, nil
}

func (r *PGRepo) Save(ctx context.Context, doc Document) error {
	query := squirrel.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.UserID, doc.FileName, doc.StorageURI, doc.StorageKey, doc.ExtractedText,
			doc.MimeType, doc.SizeBytes, doc.Confidence, doc.EntityCount, doc.CreatedAt, doc.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	stmt, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, stmt, args...)
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Document, error) {
	query := squirrel.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	stmt, args, err := query.ToSql()
	if err != nil {
		return Document{}, err
	}
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *PGRepo) Update(ctx context.Context, id string, patch Patch, updatedAt time.Time) (Document, error) {
	query := squirrel.Update("documents").
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(documentColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar)
	if patch.FileName != nil {
		query = query.Set("file_name", *patch.FileName)
	}
	if patch.ExtractedText != nil {
		query = query.Set("extracted_text", *patch.ExtractedText)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return Document{}, err
	}
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	stmt, args, err := squirrel.Delete("documents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, stmt, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// List pages with a keyset predicate on (sort column, id) when a cursor is
// given, otherwise with OFFSET.
func (r *PGRepo) List(ctx context.Context, userID string, opts ListOptions) (Page, error) {
	col, ok := sortColumns[opts.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if opts.Order == OrderAsc {
		dir = "ASC"
	}

	query := squirrel.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy(col+" "+dir, "id "+dir).
		Limit(uint64(opts.Limit + 1)).
		PlaceholderFormat(squirrel.Dollar)

	if opts.Cursor != "" {
		c, err := DecodeCursor(opts.Cursor, opts.SortBy)
		if err != nil {
			return Page{}, err
		}
		value, _ := c.TypedValue()
		if opts.Order == OrderAsc {
			query = query.Where(squirrel.Or{
				squirrel.Gt{col: value},
				squirrel.And{squirrel.Eq{col: value}, squirrel.Gt{"id": c.ID}},
			})
		} else {
			query = query.Where(squirrel.Or{
				squirrel.Lt{col: value},
				squirrel.And{squirrel.Eq{col: value}, squirrel.Lt{"id": c.ID}},
			})
		}
	} else if offset := opts.Offset(); offset > 0 {
		query = query.Offset(uint64(offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return Page{}, err
	}
	rows, err := r.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return Page{}, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}
	return finishPage(docs, opts), nil
}

var _ Repo = (*PGRepo)(nil)
