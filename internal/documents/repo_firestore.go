package documents

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
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
)

const documentsCollection = "documents"

type firestoreDocument struct {
	UserID        string    `firestore:"userId"`
	FileName      string    `firestore:"fileName"`
	StorageURI    string    `firestore:"storageUri"`
	StorageKey    string    `firestore:"storageKey"`
	ExtractedText string    `firestore:"extractedText"`
	MimeType      string    `firestore:"mimeType"`
	SizeBytes     int64     `firestore:"sizeBytes"`
	Confidence    float64   `firestore:"confidence"`
	EntityCount   int       `firestore:"entityCount"`
	CreatedAt     time.Time `firestore:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

func toFirestore(doc Document) firestoreDocument {
	return firestoreDocument{
		UserID:        doc.UserID,
		FileName:      doc.FileName,
		StorageURI:    doc.StorageURI,
		StorageKey:    doc.StorageKey,
		ExtractedText: doc.ExtractedText,
		MimeType:      doc.MimeType,
		SizeBytes:     doc.SizeBytes,
		Confidence:    doc.Confidence,
		EntityCount:   doc.EntityCount,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func fromFirestore(id string, fd firestoreDocument) Document {
	return Document{
		ID:            id,
		UserID:        fd.UserID,
		FileName:      fd.FileName,
		StorageURI:    fd.StorageURI,
		StorageKey:    fd.StorageKey,
		ExtractedText: fd.ExtractedText,
		MimeType:      fd.MimeType,
		SizeBytes:     fd.SizeBytes,
		Confidence:    fd.Confidence,
		EntityCount:   fd.EntityCount,
		CreatedAt:     fd.CreatedAt,
		UpdatedAt:     fd.UpdatedAt,
	}
}

// patchUpdates lists the Firestore field updates for patch.
func patchUpdates(patch Patch, updatedAt time.Time) []firestore.Update {
	updates := []firestore.Update{{Path: "updatedAt", Value: updatedAt}}
	if patch.FileName != nil {
		updates = append(updates, firestore.Update{Path: "fileName", Value: *patch.FileName})
	}
	if patch.ExtractedText != nil {
		updates = append(updates, firestore.Update{Path: "extractedText", Value: *patch.ExtractedText})
	}
	return updates
}

// FirestoreRepo implements Repo on a Firestore collection keyed by document id.
type FirestoreRepo struct {
	Client *firestore.Client
}

func (r *FirestoreRepo) coll() *firestore.CollectionRef {
	return r.Client.Collection(documentsCollection)
}

func (r *FirestoreRepo) Save(ctx context.Context, doc Document) error {
	_, err := r.coll().Doc(doc.ID).Set(ctx, toFirestore(doc))
	return err
}

func (r *FirestoreRepo) Get(ctx context.Context, id string) (Document, error) {
	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		return Document{}, notFound(id, err)
	}
	var fd firestoreDocument
	if err := snap.DataTo(&fd); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	return fromFirestore(snap.Ref.ID, fd), nil
}

func (r *FirestoreRepo) Update(ctx context.Context, id string, patch Patch, updatedAt time.Time) (Document, error) {
	if _, err := r.coll().Doc(id).Update(ctx, patchUpdates(patch, updatedAt)); err != nil {
		return Document{}, notFound(id, err)
	}
	return r.Get(ctx, id)
}

func (r *FirestoreRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return notFound(id, err)
	}
	return nil
}

// List orders by the sort field then document id. Cursors that carry a sort
// value continue with StartAfter(value, id). Tokens that do not decode are
// treated as a bare document id: the record is re-fetched and the query
// starts after its snapshot.
func (r *FirestoreRepo) List(ctx context.Context, userID string, opts ListOptions) (Page, error) {
	dir := firestore.Desc
	if opts.Order == OrderAsc {
		dir = firestore.Asc
	}
	q := r.coll().
		Where("userId", "==", userID).
		OrderBy(string(opts.SortBy), dir).
		OrderBy(firestore.DocumentID, dir).
		Limit(opts.Limit + 1)

	switch {
	case opts.Cursor != "":
		c, err := DecodeCursor(opts.Cursor, opts.SortBy)
		if err == nil {
			value, _ := c.TypedValue()
			q = q.StartAfter(value, c.ID)
			break
		}
		snap, snapErr := r.coll().Doc(opts.Cursor).Get(ctx)
		if snapErr != nil {
			return Page{}, err
		}
		owner, _ := snap.DataAt("userId")
		if owner != userID {
			return Page{}, err
		}
		telemetry.Info("documents.cursor_rescan", map[string]any{"user_id": userID})
		q = q.StartAfter(snap)
	case opts.Offset() > 0:
		q = q.Offset(opts.Offset())
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return Page{}, fmt.Errorf("list documents: %w", err)
		}
		var fd firestoreDocument
		if err := snap.DataTo(&fd); err != nil {
			return Page{}, fmt.Errorf("decode document %s: %w", snap.Ref.ID, err)
		}
		docs = append(docs, fromFirestore(snap.Ref.ID, fd))
	}
	return finishPage(docs, opts), nil
}

func notFound(id string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
	}
	return err
}

var _ Repo = (*FirestoreRepo)(nil)
