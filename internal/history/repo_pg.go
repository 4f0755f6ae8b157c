package history

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
)

// PGRepo stores one row per entry in history_entries.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Append(ctx context.Context, userID string, entry Entry) error {
	stmt, args, err := squirrel.Insert("history_entries").
		Columns("user_id", "document_id", "file_name", "mime_type", "size_bytes", "summary_preview", "created_at").
		Values(userID, entry.DocumentID, entry.FileName, entry.MimeType, entry.SizeBytes, entry.SummaryPreview, entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, stmt, args...)
	return err
}

func (r *PGRepo) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	stmt, args, err := squirrel.Select("document_id", "file_name", "mime_type", "size_bytes", "summary_preview", "created_at").
		From("history_entries").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.DocumentID, &e.FileName, &e.MimeType, &e.SizeBytes, &e.SummaryPreview, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
