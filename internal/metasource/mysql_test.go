package metasource

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dbsmedya/crmchart/internal/logger"
	"github.com/dbsmedya/crmchart/internal/metadata"
	"github.com/dbsmedya/crmchart/internal/sqlutil"
)

var entityColumns = []string{
	"metadata_id", "logical_name", "display_name", "display_collection_name",
	"object_type_code", "primary_id_attribute", "primary_name_attribute", "entity_color",
}

func newMockSQLSource(t *testing.T) (*SQLSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	src, err := NewSQLSource(db, "crm.entity_metadata", nil)
	require.NoError(t, err)
	return src, mock
}

func TestNewSQLSource_Validation(t *testing.T) {
	_, err := NewSQLSource(nil, "entity_metadata", nil)
	assert.Error(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLSource(db, "entity-metadata", nil)
	var invalid *sqlutil.InvalidIdentifierError
	assert.ErrorAs(t, err, &invalid)
}

func TestSQLSource_Fetch(t *testing.T) {
	src, mock := newMockSQLSource(t)

	mock.ExpectQuery("FROM `crm`.`entity_metadata`\\s+WHERE logical_name = \\?").
		WithArgs("account").
		WillReturnRows(sqlmock.NewRows(entityColumns).AddRow(
			"3f2504e0-4f89-11d3-9a0c-0305e82c3301", "account", "Account", "Accounts",
			1, "accountid", "name", "#0078d4",
		))

	md, err := src.FetchEntityMetadata(context.Background(), "account")
	require.NoError(t, err)

	assert.Equal(t, "account", md.LogicalName)
	assert.Equal(t, "Account", md.DisplayName)
	assert.Equal(t, 1, md.ObjectTypeCode)
	assert.Equal(t, "#0078d4", md.Color)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSource_NullColumns(t *testing.T) {
	src, mock := newMockSQLSource(t)

	mock.ExpectQuery("SELECT metadata_id").
		WithArgs("lead").
		WillReturnRows(sqlmock.NewRows(entityColumns).AddRow(
			nil, "lead", nil, nil, nil, nil, nil, nil,
		))

	md, err := src.FetchEntityMetadata(context.Background(), "lead")
	require.NoError(t, err)
	assert.Equal(t, "lead", md.LogicalName)
	assert.Equal(t, 0, md.ObjectTypeCode)
	assert.Empty(t, md.DisplayName)
}

func TestSQLSource_NotFound(t *testing.T) {
	src, mock := newMockSQLSource(t)

	mock.ExpectQuery("SELECT metadata_id").
		WithArgs("contact").
		WillReturnRows(sqlmock.NewRows(entityColumns))

	_, err := src.FetchEntityMetadata(context.Background(), "contact")
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrMetadataNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSource_QueryError(t *testing.T) {
	src, mock := newMockSQLSource(t)

	mock.ExpectQuery("SELECT metadata_id").
		WithArgs("account").
		WillReturnError(errors.New("connection reset"))

	_, err := src.FetchEntityMetadata(context.Background(), "account")
	require.Error(t, err)

	var serr *SourceError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "mysql", serr.Source)
	assert.Equal(t, "account", serr.EntityName)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSQLSource_InvalidRow(t *testing.T) {
	src, mock := newMockSQLSource(t)

	mock.ExpectQuery("SELECT metadata_id").
		WithArgs("account").
		WillReturnRows(sqlmock.NewRows(entityColumns).AddRow(
			"not-a-uuid", "account", "Account", "Accounts", 1, "accountid", "name", "",
		))

	_, err := src.FetchEntityMetadata(context.Background(), "account")
	var serr *SourceError
	assert.True(t, errors.As(err, &serr))
}

func TestSQLSource_LogsEntity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	src, err := NewSQLSource(db, "entity_metadata", logger.FromCore(core))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT metadata_id").
		WithArgs("contact").
		WillReturnRows(sqlmock.NewRows(entityColumns))

	_, err = src.FetchEntityMetadata(context.Background(), "contact")
	require.Error(t, err)

	entries := logs.FilterMessage("Entity metadata not in table").All()
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]interface{}{logger.FieldEntity: "contact"}, entries[0].ContextMap())
}
