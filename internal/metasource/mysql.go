package metasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dbsmedya/crmchart/internal/logger"
	"github.com/dbsmedya/crmchart/internal/metadata"
	"github.com/dbsmedya/crmchart/internal/sqlutil"
)

// SQLSource looks entity metadata up in a MySQL table with one row per
// entity.
type SQLSource struct {
	db     *sql.DB
	query  string
	logger *logger.Logger
}

// NewSQLSource creates a source reading from table.
func NewSQLSource(db *sql.DB, table string, log *logger.Logger) (*SQLSource, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	quoted, err := sqlutil.QuoteTableName(table)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	query := fmt.Sprintf(`SELECT metadata_id, logical_name, display_name, display_collection_name,
	object_type_code, primary_id_attribute, primary_name_attribute, entity_color
FROM %s
WHERE logical_name = ?
LIMIT 1`, quoted)

	return &SQLSource{db: db, query: query, logger: log}, nil
}

// FetchEntityMetadata implements metadata.Source.
func (s *SQLSource) FetchEntityMetadata(ctx context.Context, logicalName string) (*metadata.EntityMetadata, error) {
	var (
		id, name, display, collection sql.NullString
		idAttr, nameAttr, color       sql.NullString
		typeCode                      sql.NullInt64
	)

	err := s.db.QueryRowContext(ctx, s.query, logicalName).Scan(
		&id, &name, &display, &collection, &typeCode, &idAttr, &nameAttr, &color,
	)
	log := s.logger.WithEntity(logicalName)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugw("Entity metadata not in table")
		return nil, &metadata.NotFoundError{LogicalName: logicalName}
	}
	if err != nil {
		return nil, &SourceError{Source: "mysql", EntityName: logicalName, Err: err}
	}

	md, err := metadata.NewEntityMetadata(metadata.EntityRow{
		MetadataID:            id.String,
		LogicalName:           name.String,
		DisplayName:           display.String,
		DisplayCollectionName: collection.String,
		ObjectTypeCode:        typeCode.Int64,
		PrimaryIDAttribute:    idAttr.String,
		PrimaryNameAttribute:  nameAttr.String,
		EntityColor:           color.String,
	})
	if err != nil {
		return nil, &SourceError{Source: "mysql", EntityName: logicalName, Err: err}
	}

	log.Debugw("Entity metadata loaded from table")
	return md, nil
}
