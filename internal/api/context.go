package api

import (
	"context"
	"errors"

	"github.com/hyperengineering/folio/internal/content"
)

// collectionContextKey is the context key for the resolved collection.
type collectionContextKey struct{}

// ErrNoCollectionInContext indicates no collection was found in the context.
var ErrNoCollectionInContext = errors.New("no collection in context")

// WithCollection returns a new context with the collection attached.
func WithCollection(ctx context.Context, c content.Collection) context.Context {
	return context.WithValue(ctx, collectionContextKey{}, c)
}

// CollectionFromContext extracts the collection from the context.
// Returns ErrNoCollectionInContext if not present.
func CollectionFromContext(ctx context.Context) (content.Collection, error) {
	c, ok := ctx.Value(collectionContextKey{}).(content.Collection)
	if !ok || c.Name == "" {
		return content.Collection{}, ErrNoCollectionInContext
	}
	return c, nil
}

// MustCollectionFromContext extracts the collection or panics.
// Use only when middleware guarantees collection presence.
func MustCollectionFromContext(ctx context.Context) content.Collection {
	c, err := CollectionFromContext(ctx)
	if err != nil {
		panic("collection not in context: middleware misconfiguration")
	}
	return c
}
