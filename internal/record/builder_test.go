package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/crmchart/internal/types"
)

const header = "00000042"

func TestBuild_PreservesRowCountAndOrder(t *testing.T) {
	for _, n := range []int{0, 1, 5, 50} {
		t.Run(fmt.Sprintf("%d rows", n), func(t *testing.T) {
			rows := make([]string, n)
			for i := range rows {
				rows[i] = fmt.Sprintf(`{"seq":%d}`, i)
			}
			data := header + "[" + strings.Join(rows, ",") + "]"

			coll, err := Build(data, nil)
			require.NoError(t, err)
			require.Equal(t, n, coll.Len())
			for i, r := range coll.All() {
				assert.Equal(t, json.Number(fmt.Sprint(i)), r["seq"])
			}
		})
	}
}

func TestBuild_HeaderIsStripped(t *testing.T) {
	// The header is opaque; anything in it is discarded.
	coll, err := Build(`[{"a":1}`+`[{"b":2}]`, nil)
	require.NoError(t, err)
	require.Equal(t, 1, coll.Len())
	_, ok := coll.At(0).Get("b")
	assert.True(t, ok)
}

func TestBuild_HeaderCountsCharacters(t *testing.T) {
	coll, err := Build("ééééééé1[{\"x\":\"y\"}]", nil)
	require.NoError(t, err)
	assert.Equal(t, "y", coll.At(0)["x"])
}

func TestBuild_DerivesRawValue(t *testing.T) {
	data := header + `[{"new_value_Value": "5", "new_value": "Formatted"}]`

	coll, err := Build(data, nil)
	require.NoError(t, err)

	r := coll.At(0)
	assert.Equal(t, "5", r["new_value_RawValue"])
	assert.Equal(t, "Formatted", r["new_value"])
	assert.Equal(t, "5", r["new_value_Value"], "the original field is kept")

	raw, ok := r.RawValue("new_value")
	require.True(t, ok)
	assert.Equal(t, "5", raw)
}

func TestBuild_DerivedValueKeepsType(t *testing.T) {
	data := header + `[{"amount_Value": 1250.5, "amount": "$1,250.50", "flag_Value": null}]`

	coll, err := Build(data, nil)
	require.NoError(t, err)

	r := coll.At(0)
	assert.Equal(t, json.Number("1250.5"), r["amount_RawValue"])
	v, ok := r.Get("flag_RawValue")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestBuild_BackfillsAlias(t *testing.T) {
	descriptors := []Descriptor{{LogicalName: "amount", Alias: "alias1"}}

	coll, err := Build(header+`[{"amount": 100}]`, descriptors)
	require.NoError(t, err)
	assert.Equal(t, "100", coll.At(0)["alias1"])
}

func TestBuild_AliasBackfillRules(t *testing.T) {
	descriptors := []Descriptor{
		{LogicalName: "amount", Alias: "alias1"},
		{LogicalName: "name"},
	}

	tests := []struct {
		name    string
		row     string
		want    interface{}
		present bool
	}{
		{name: "alias already present", row: `{"amount": 100, "alias1": "kept"}`, want: "kept", present: true},
		{name: "base missing", row: `{"other": 1}`, present: false},
		{name: "base zero is falsy", row: `{"amount": 0}`, present: false},
		{name: "base empty string is falsy", row: `{"amount": ""}`, present: false},
		{name: "base null is falsy", row: `{"amount": null}`, present: false},
		{name: "base false is falsy", row: `{"amount": false}`, present: false},
		{name: "base true", row: `{"amount": true}`, want: "true", present: true},
		{name: "base string", row: `{"amount": "abc"}`, want: "abc", present: true},
		{name: "base decimal keeps text", row: `{"amount": 10.50}`, want: "10.50", present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll, err := Build(header+"["+tt.row+"]", descriptors)
			require.NoError(t, err)

			got, ok := coll.At(0).Get("alias1")
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBuild_BackfilledAliasGetsRawValue(t *testing.T) {
	descriptors := []Descriptor{{LogicalName: "statuscode_Value", Alias: "status_Value"}}

	coll, err := Build(header+`[{"statuscode_Value": 3}]`, descriptors)
	require.NoError(t, err)

	r := coll.At(0)
	assert.Equal(t, "3", r["status_Value"])
	assert.Equal(t, "3", r["status_RawValue"])
	assert.Equal(t, json.Number("3"), r["statuscode_RawValue"])
}

func TestBuild_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "shorter than header", data: "1234"},
		{name: "header only", data: header},
		{name: "invalid json", data: header + `[{"a":`},
		{name: "not an array", data: header + `{"a":1}`},
		{name: "row is not an object", data: header + `[{"a":1}, 5]`},
		{name: "null row", data: header + `[null]`},
		{name: "header not stripped by producer", data: `[{"a":1}]`},
		{name: "trailing text", data: header + `[{"a":1}] this is not json`},
		{name: "extra closing bracket", data: header + `[{"a":1}]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll, err := Build(tt.data, nil)
			assert.Nil(t, coll)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrMalformedPayload))
		})
	}
}

func TestRecord_RawValue(t *testing.T) {
	r := Record{"b": 1, "a": 2, "c_RawValue": 3}

	v, ok := r.RawValue("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = r.RawValue("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = r.RawValue("missing")
	assert.False(t, ok)
}
