// Package docstore is a minimal document database abstraction: collections of
// schemaless documents addressed by slash-separated paths, with equality
// filters, ordered queries, merge-writes and batched deletes.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("document not found")

// TimeLayout is how timestamps are stored inside documents. It is fixed
// width and always UTC so that string order matches time order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type deleteField struct{}

// DeleteField can be used as a value in Merge to remove that field.
var DeleteField any = deleteField{}

// Ref addresses one document.
type Ref struct {
	Collection string
	ID         string
}

// Path returns collection/id.
func (r Ref) Path() string {
	return r.Collection + "/" + r.ID
}

// Doc builds a Ref from alternating collection and document path segments,
// for example Doc("users", uid, "favorites", recipeID).
func Doc(segments ...string) Ref {
	if len(segments) < 2 || len(segments)%2 != 0 {
		panic(fmt.Sprintf("docstore: document path needs an even number of segments, got %d", len(segments)))
	}
	return Ref{
		Collection: strings.Join(segments[:len(segments)-1], "/"),
		ID:         segments[len(segments)-1],
	}
}

// Collection joins collection path segments, for example
// Collection("users", uid, "meal_plan").
func Collection(segments ...string) string {
	if len(segments)%2 != 1 {
		panic(fmt.Sprintf("docstore: collection path needs an odd number of segments, got %d", len(segments)))
	}
	return strings.Join(segments, "/")
}

// Document is a stored document.
type Document struct {
	Ref  Ref
	Data map[string]any
}

// ID returns the document key.
func (d *Document) ID() string { return d.Ref.ID }

// String returns field key when it holds a string and "" otherwise.
func (d *Document) String(key string) string {
	s, _ := d.Data[key].(string)
	return s
}

// Bool returns field key when it holds a bool and false otherwise.
func (d *Document) Bool(key string) bool {
	b, _ := d.Data[key].(bool)
	return b
}

// Int returns a numeric field as an int. Backends decode numbers
// differently (int64 from Firestore, float64 from JSON), both are accepted.
func (d *Document) Int(key string) int {
	switch v := d.Data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Map returns a nested map field, or nil.
func (d *Document) Map(key string) map[string]any {
	m, _ := d.Data[key].(map[string]any)
	return m
}

// Direction is the sort order of a query.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter is an equality condition on a top-level string field.
type Filter struct {
	Field string
	Value string
}

// Query selects documents of one collection. Zero values mean no filter,
// store order and no limit.
type Query struct {
	Filters   []Filter
	OrderBy   string
	Direction Direction
	Limit     int
}

// Where returns a copy of q with one more equality filter.
func (q Query) Where(field, value string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

// Store is implemented by every backend.
type Store interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, ref Ref) (*Document, error)
	Query(ctx context.Context, collection string, q Query) ([]*Document, error)
	// Add stores data under a generated key and returns that key.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set replaces the whole document.
	Set(ctx context.Context, ref Ref, data map[string]any) error
	// Merge creates the document if needed and overwrites only the given
	// top-level fields. A DeleteField value removes the field.
	Merge(ctx context.Context, ref Ref, data map[string]any) error
	// Delete succeeds when the document does not exist.
	Delete(ctx context.Context, ref Ref) error
	// DeleteAll removes all refs atomically.
	DeleteAll(ctx context.Context, refs []Ref) error
	Ping(ctx context.Context) error
	Close() error
}

func applyMerge(dst, patch map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(patch))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range patch {
		if v == DeleteField {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
