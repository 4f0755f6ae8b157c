package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

var analysisColumns = []string{
	"id", "user_id", "document_id", "storage_uri", "question", "answer", "text_length", "status", "created_at",
}

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var documentID, storageURI sql.NullString
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&documentID,
		&storageURI,
		&a.Question,
		&a.Answer,
		&a.TextLength,
		&a.Status,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	a.DocumentID = documentID.String
	a.StorageURI = storageURI.String
	return a, nil
}

func (r *PGRepo) Save(ctx context.Context, a Analysis) error {
	stmt, args, err := squirrel.Insert("analyses").
		Columns(analysisColumns...).
		Values(a.ID, a.UserID, nullableString(a.DocumentID), nullableString(a.StorageURI),
			a.Question, a.Answer, a.TextLength, a.Status, a.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, stmt, args...)
	return err
}

func (r *PGRepo) Get(ctx context.Context, analysisID string) (Analysis, error) {
	stmt, args, err := squirrel.Select(analysisColumns...).
		From("analyses").
		Where(squirrel.Eq{"id": analysisID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return Analysis{}, err
	}
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, fmt.Errorf("analysis %s: %w", analysisID, apperr.ErrNotFound)
		}
		return Analysis{}, err
	}
	return a, nil
}

func (r *PGRepo) Delete(ctx context.Context, analysisID string) error {
	stmt, args, err := squirrel.Delete("analyses").
		Where(squirrel.Eq{"id": analysisID}).
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
		return fmt.Errorf("analysis %s: %w", analysisID, apperr.ErrNotFound)
	}
	return nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	query := squirrel.Select(analysisColumns...).
		From("analyses").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar)
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
