package metasource

import (
	"context"
	"fmt"
	"os"

	"github.com/dbsmedya/crmchart/internal/metadata"
)

// StaticSource serves entity metadata from memory.
type StaticSource struct {
	store *metadata.Store
}

// NewStaticSource creates a source holding rows.
func NewStaticSource(rows []*metadata.EntityMetadata) *StaticSource {
	store := metadata.NewStore()
	store.Load(rows)
	return &StaticSource{store: store}
}

// LoadStaticSource reads serialized entity metadata rows from a file.
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity metadata file: %w", err)
	}
	rows, err := metadata.LoadEntityMetadata(string(data))
	if err != nil {
		return nil, err
	}
	return NewStaticSource(rows), nil
}

// FetchEntityMetadata implements metadata.Source.
func (s *StaticSource) FetchEntityMetadata(ctx context.Context, logicalName string) (*metadata.EntityMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.FindByLogicalName(logicalName)
}

// Len returns the number of entities held.
func (s *StaticSource) Len() int {
	return s.store.Len()
}

// All returns the held rows in load order.
func (s *StaticSource) All() []*metadata.EntityMetadata {
	return s.store.All()
}
