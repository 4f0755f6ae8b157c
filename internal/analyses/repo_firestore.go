package analyses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

const analysesCollection = "analyses"

type firestoreAnalysis struct {
	UserID     string    `firestore:"userId"`
	DocumentID string    `firestore:"documentId,omitempty"`
	StorageURI string    `firestore:"storageUri,omitempty"`
	Question   string    `firestore:"question"`
	Answer     string    `firestore:"answer"`
	TextLength int       `firestore:"textLength"`
	Status     string    `firestore:"status"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

func toFirestore(a Analysis) firestoreAnalysis {
	return firestoreAnalysis{
		UserID:     a.UserID,
		DocumentID: a.DocumentID,
		StorageURI: a.StorageURI,
		Question:   a.Question,
		Answer:     a.Answer,
		TextLength: a.TextLength,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
	}
}

func fromFirestore(id string, fa firestoreAnalysis) Analysis {
	return Analysis{
		ID:         id,
		UserID:     fa.UserID,
		DocumentID: fa.DocumentID,
		StorageURI: fa.StorageURI,
		Question:   fa.Question,
		Answer:     fa.Answer,
		TextLength: fa.TextLength,
		Status:     fa.Status,
		CreatedAt:  fa.CreatedAt,
	}
}

// FirestoreRepo implements Repo on the analyses collection.
type FirestoreRepo struct {
	Client *firestore.Client
}

func (r *FirestoreRepo) Save(ctx context.Context, a Analysis) error {
	_, err := r.Client.Collection(analysesCollection).Doc(a.ID).Set(ctx, toFirestore(a))
	return err
}

func (r *FirestoreRepo) Get(ctx context.Context, analysisID string) (Analysis, error) {
	snap, err := r.Client.Collection(analysesCollection).Doc(analysisID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Analysis{}, fmt.Errorf("analysis %s: %w", analysisID, apperr.ErrNotFound)
		}
		return Analysis{}, err
	}
	var fa firestoreAnalysis
	if err := snap.DataTo(&fa); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis %s: %w", analysisID, err)
	}
	return fromFirestore(snap.Ref.ID, fa), nil
}

func (r *FirestoreRepo) Delete(ctx context.Context, analysisID string) error {
	_, err := r.Client.Collection(analysesCollection).Doc(analysisID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("analysis %s: %w", analysisID, apperr.ErrNotFound)
		}
		return err
	}
	return nil
}

func (r *FirestoreRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	q := r.Client.Collection(analysesCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []Analysis{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list analyses: %w", err)
		}
		var fa firestoreAnalysis
		if err := snap.DataTo(&fa); err != nil {
			return nil, fmt.Errorf("decode analysis %s: %w", snap.Ref.ID, err)
		}
		out = append(out, fromFirestore(snap.Ref.ID, fa))
	}
	return out, nil
}

var _ Repo = (*FirestoreRepo)(nil)
