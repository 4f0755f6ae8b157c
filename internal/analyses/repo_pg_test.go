package analyses

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoSaveStoresNullsForMissingTarget(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	a := Analysis{
		ID:         "8b4c0f1e-0000-4000-8000-000000000001",
		UserID:     "user-1",
		StorageURI: "gs://legal-docs/uploads/a.pdf",
		Question:   "Termination?",
		Answer:     "30 days",
		TextLength: 120,
		Status:     StatusCompleted,
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(a.ID, a.UserID, nil, a.StorageURI, a.Question, a.Answer, a.TextLength, a.Status, a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(analysisColumns).
		AddRow("a2", "user-1", "doc-1", nil, "", "summary", 10, StatusCompleted, now).
		AddRow("a1", "user-1", nil, "gs://b/k.pdf", "q", "answer", 5, StatusCompleted, now.Add(-time.Hour))

	mock.ExpectQuery("FROM analyses WHERE user_id = \\$1 ORDER BY created_at DESC, id DESC LIMIT 50").
		WithArgs("user-1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "user-1", 50)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].DocumentID != "doc-1" || got[0].StorageURI != "" || got[1].StorageURI != "gs://b/k.pdf" {
		t.Fatalf("unexpected analyses %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
