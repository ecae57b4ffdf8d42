package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is backed by Cloud Firestore. Collection paths map directly
// onto Firestore collection paths.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an open client. The store owns the client and
// closes it on Close.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) doc(ref Ref) *firestore.DocumentRef {
	return s.client.Collection(ref.Collection).Doc(ref.ID)
}

func fromSnapshot(collection string, snap *firestore.DocumentSnapshot) *Document {
	data := snap.Data()
	if data == nil {
		data = map[string]any{}
	}
	return &Document{Ref: Ref{Collection: collection, ID: snap.Ref.ID}, Data: data}
}

func (s *FirestoreStore) Get(ctx context.Context, ref Ref) (*Document, error) {
	if ref.ID == "" {
		return nil, ErrNotFound
	}
	dr := s.doc(ref)
	if dr == nil {
		return nil, fmt.Errorf("invalid document path %q", ref.Path())
	}
	snap, err := dr.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", ref.Path(), err)
	}
	return fromSnapshot(ref.Collection, snap), nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, q Query) ([]*Document, error) {
	col := s.client.Collection(collection)
	if col == nil {
		return nil, fmt.Errorf("invalid collection path %q", collection)
	}
	query := col.Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Direction == Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	docs := make([]*Document, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", collection, err)
		}
		docs = append(docs, fromSnapshot(collection, snap))
	}
	return docs, nil
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	col := s.client.Collection(collection)
	if col == nil {
		return "", fmt.Errorf("invalid collection path %q", collection)
	}
	dr, _, err := col.Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to add to %s: %w", collection, err)
	}
	return dr.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, ref Ref, data map[string]any) error {
	dr := s.doc(ref)
	if dr == nil {
		return fmt.Errorf("invalid document path %q", ref.Path())
	}
	if _, err := dr.Set(ctx, data); err != nil {
		return fmt.Errorf("failed to set %s: %w", ref.Path(), err)
	}
	return nil
}

func (s *FirestoreStore) Merge(ctx context.Context, ref Ref, data map[string]any) error {
	dr := s.doc(ref)
	if dr == nil {
		return fmt.Errorf("invalid document path %q", ref.Path())
	}
	patch := make(map[string]any, len(data))
	for k, v := range data {
		if v == DeleteField {
			patch[k] = firestore.Delete
			continue
		}
		patch[k] = v
	}
	if _, err := dr.Set(ctx, patch, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge %s: %w", ref.Path(), err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, ref Ref) error {
	dr := s.doc(ref)
	if dr == nil {
		return fmt.Errorf("invalid document path %q", ref.Path())
	}
	if _, err := dr.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", ref.Path(), err)
	}
	return nil
}

func (s *FirestoreStore) DeleteAll(ctx context.Context, refs []Ref) error {
	if len(refs) == 0 {
		return nil
	}
	drs := make([]*firestore.DocumentRef, 0, len(refs))
	for _, ref := range refs {
		dr := s.doc(ref)
		if dr == nil {
			return fmt.Errorf("invalid document path %q", ref.Path())
		}
		drs = append(drs, dr)
	}
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, dr := range drs {
			if err := tx.Delete(dr); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete %d documents: %w", len(refs), err)
	}
	return nil
}

// Ping reads a document that need not exist; any answer from the backend
// other than a transport error counts as healthy.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection("_health").Doc("ping").Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return err
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
