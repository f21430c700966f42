// Package metadata holds entity metadata, attribute metadata and the charting
// metadata aggregated per build.
package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dbsmedya/crmchart/internal/types"
)

// ErrMetadataNotFound is matched when an entity lookup finds no match.
var ErrMetadataNotFound = errors.New("entity metadata not found")

// NotFoundError names the entity whose metadata could not be found.
type NotFoundError struct {
	LogicalName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity metadata not found: %q", e.LogicalName)
}

// Is makes errors.Is(err, ErrMetadataNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrMetadataNotFound
}

// EntityMetadata describes one CRM entity. Read-only once constructed.
type EntityMetadata struct {
	ID                    uuid.UUID
	LogicalName           string
	DisplayName           string
	DisplayCollectionName string
	ObjectTypeCode        int
	PrimaryIDAttribute    string
	PrimaryNameAttribute  string
	Color                 string
}

// EntityRow is the serialized form of EntityMetadata.
type EntityRow struct {
	MetadataID            string      `json:"MetadataId"`
	LogicalName           string      `json:"LogicalName"`
	DisplayName           string      `json:"DisplayName"`
	DisplayCollectionName string      `json:"DisplayCollectionName"`
	ObjectTypeCode        interface{} `json:"ObjectTypeCode"`
	PrimaryIDAttribute    string      `json:"PrimaryIdAttribute"`
	PrimaryNameAttribute  string      `json:"PrimaryNameAttribute"`
	EntityColor           string      `json:"EntityColor"`
}

// NewEntityMetadata validates a row and builds the metadata record from it.
func NewEntityMetadata(row EntityRow) (*EntityMetadata, error) {
	if row.LogicalName == "" {
		return nil, fmt.Errorf("entity metadata row has no LogicalName")
	}

	id := uuid.Nil
	if row.MetadataID != "" {
		parsed, err := uuid.Parse(row.MetadataID)
		if err != nil {
			return nil, fmt.Errorf("entity %q has invalid MetadataId: %w", row.LogicalName, err)
		}
		id = parsed
	}

	return &EntityMetadata{
		ID:                    id,
		LogicalName:           row.LogicalName,
		DisplayName:           row.DisplayName,
		DisplayCollectionName: row.DisplayCollectionName,
		ObjectTypeCode:        int(types.ToInt64(row.ObjectTypeCode)),
		PrimaryIDAttribute:    row.PrimaryIDAttribute,
		PrimaryNameAttribute:  row.PrimaryNameAttribute,
		Color:                 row.EntityColor,
	}, nil
}

// Row converts the metadata back to its serialized form.
func (m *EntityMetadata) Row() EntityRow {
	row := EntityRow{
		LogicalName:           m.LogicalName,
		DisplayName:           m.DisplayName,
		DisplayCollectionName: m.DisplayCollectionName,
		ObjectTypeCode:        m.ObjectTypeCode,
		PrimaryIDAttribute:    m.PrimaryIDAttribute,
		PrimaryNameAttribute:  m.PrimaryNameAttribute,
		EntityColor:           m.Color,
	}
	if m.ID != uuid.Nil {
		row.MetadataID = m.ID.String()
	}
	return row
}

// ParseEntityRow decodes a single serialized entity metadata row.
func ParseEntityRow(data []byte) (*EntityMetadata, error) {
	var row EntityRow
	if err := types.DecodeJSON(data, &row); err != nil {
		return nil, types.NewPayloadError("entity metadata", err)
	}
	md, err := NewEntityMetadata(row)
	if err != nil {
		return nil, types.NewPayloadError("entity metadata", err)
	}
	return md, nil
}

// LoadEntityMetadata decodes serialized entity metadata rows, preserving order.
// An empty string yields no rows.
func LoadEntityMetadata(raw string) ([]*EntityMetadata, error) {
	if raw == "" {
		return nil, nil
	}

	var rows []EntityRow
	if err := types.DecodeJSON([]byte(raw), &rows); err != nil {
		return nil, types.NewPayloadError("entity metadata", err)
	}

	result := make([]*EntityMetadata, 0, len(rows))
	for i, row := range rows {
		md, err := NewEntityMetadata(row)
		if err != nil {
			return nil, types.NewPayloadError("entity metadata", fmt.Errorf("row %d: %w", i, err))
		}
		result = append(result, md)
	}
	return result, nil
}


// Source looks up entity metadata that a build request did not carry.
type Source interface {
	FetchEntityMetadata(ctx context.Context, logicalName string) (*EntityMetadata, error)
}

// Store holds the entity metadata known to a single build.
// It is not safe for concurrent mutation.
type Store struct {
	entities []*EntityMetadata
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load replaces the store contents, preserving input order.
func (s *Store) Load(rows []*EntityMetadata) {
	s.entities = make([]*EntityMetadata, 0, len(rows))
	for _, md := range rows {
		if md != nil {
			s.entities = append(s.entities, md)
		}
	}
}

// Add appends md, replacing any entry with the same logical name.
func (s *Store) Add(md *EntityMetadata) {
	if md == nil {
		return
	}
	for i, existing := range s.entities {
		if existing.LogicalName == md.LogicalName {
			s.entities[i] = md
			return
		}
	}
	s.entities = append(s.entities, md)
}

// FindByLogicalName scans all entries for the given logical name.
func (s *Store) FindByLogicalName(name string) (*EntityMetadata, error) {
	for _, md := range s.entities {
		if md.LogicalName == name {
			return md, nil
		}
	}
	return nil, &NotFoundError{LogicalName: name}
}

// Has reports whether the store holds metadata for name.
func (s *Store) Has(name string) bool {
	_, err := s.FindByLogicalName(name)
	return err == nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entities)
}

// All returns a copy of the entries in load order.
func (s *Store) All() []*EntityMetadata {
	out := make([]*EntityMetadata, len(s.entities))
	copy(out, s.entities)
	return out
}
