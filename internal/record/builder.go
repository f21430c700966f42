package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dbsmedya/crmchart/internal/types"
)

const (
	// HeaderLength is the number of characters the upstream serializer puts
	// in front of the JSON row array.
	HeaderLength = 8

	// ValueSuffix marks fields carrying the unformatted value of a
	// formatted numeric or option-set field.
	ValueSuffix = "_Value"

	// RawValueSuffix is appended to the stripped field name for the derived
	// raw-value field.
	RawValueSuffix = "_RawValue"
)

// Descriptor identifies a query attribute as it appears in result rows.
type Descriptor struct {
	LogicalName string
	Alias       string
}

// Build parses a header-prefixed JSON row array into a Collection. Rows keep
// their order; any parse failure fails the whole build.
func Build(data string, descriptors []Descriptor) (*Collection, error) {
	body, err := stripHeader(data)
	if err != nil {
		return nil, types.NewPayloadError("data", err)
	}

	var rows []json.RawMessage
	if err := types.DecodeJSON([]byte(body), &rows); err != nil {
		return nil, types.NewPayloadError("data", err)
	}

	coll := NewCollection(len(rows))
	for i, raw := range rows {
		var row map[string]interface{}
		if err := types.DecodeJSON(raw, &row); err != nil {
			return nil, types.NewPayloadError("data", fmt.Errorf("row %d: %w", i, err))
		}
		if row == nil {
			return nil, types.NewPayloadError("data", fmt.Errorf("row %d is not an object", i))
		}

		backfillAliases(row, descriptors)
		deriveRawValues(row)

		coll.Append(Record(row))
	}
	return coll, nil
}

func stripHeader(data string) (string, error) {
	if utf8.RuneCountInString(data) < HeaderLength {
		return "", fmt.Errorf("data is shorter than the %d character header", HeaderLength)
	}
	for i := 0; i < HeaderLength; i++ {
		_, size := utf8.DecodeRuneInString(data)
		data = data[size:]
	}
	return data, nil
}


// backfillAliases copies a truthy base value into an alias the server left
// unpopulated.
func backfillAliases(row map[string]interface{}, descriptors []Descriptor) {
	for _, d := range descriptors {
		if d.Alias == "" {
			continue
		}
		if _, ok := row[d.Alias]; ok {
			continue
		}
		base, ok := row[d.LogicalName]
		if !ok || !types.IsTruthy(base) {
			continue
		}
		row[d.Alias] = types.ToString(base)
	}
}

// deriveRawValues exposes every "<name>_Value" field as "<name>_RawValue".
func deriveRawValues(row map[string]interface{}) {
	derived := make(map[string]interface{})
	for key, value := range row {
		if !strings.HasSuffix(key, ValueSuffix) {
			continue
		}
		derived[strings.TrimSuffix(key, ValueSuffix)+RawValueSuffix] = value
	}
	for key, value := range derived {
		row[key] = value
	}
}
