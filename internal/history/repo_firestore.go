package history

import (
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const historyCollection = "history"

type firestoreEntry struct {
	DocumentID     string    `firestore:"documentId"`
	FileName       string    `firestore:"fileName"`
	MimeType       string    `firestore:"mimeType"`
	SizeBytes      int64     `firestore:"sizeBytes"`
	SummaryPreview string    `firestore:"summaryPreview"`
	CreatedAt      time.Time `firestore:"createdAt"`
}

type firestoreHistory struct {
	Entries []firestoreEntry `firestore:"entries"`
}

// FirestoreRepo keeps one document per user holding an entries array.
// Append is a single ArrayUnion merge; concurrent appends for the same user
// are resolved by Firestore.
type FirestoreRepo struct {
	Client *firestore.Client
}

func (r *FirestoreRepo) Append(ctx context.Context, userID string, entry Entry) error {
	_, err := r.Client.Collection(historyCollection).Doc(userID).Set(ctx, map[string]any{
		"entries":   firestore.ArrayUnion(firestoreEntry(entry)),
		"updatedAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("append history %s: %w", userID, err)
	}
	return nil
}

func (r *FirestoreRepo) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	snap, err := r.Client.Collection(historyCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("read history %s: %w", userID, err)
	}
	var h firestoreHistory
	if err := snap.DataTo(&h); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", userID, err)
	}
	return newestFirst(h.Entries, limit), nil
}

func newestFirst(entries []firestoreEntry, limit int) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry(e))
	}
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

var _ Repo = (*FirestoreRepo)(nil)
