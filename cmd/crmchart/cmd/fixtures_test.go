package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/crmchart/internal/chart"
)

const testDataDescription = `<datadefinition>
  <fetchcollection>
    <fetch mapping="logical" aggregate="true">
      <entity name="opportunity">
        <attribute alias="aggregate_column" name="estimatedvalue" aggregate="sum" />
        <attribute groupby="true" alias="groupby_column" name="statuscode" />
      </entity>
    </fetch>
  </fetchcollection>
  <categorycollection>
    <category>
      <measurecollection>
        <measure alias="aggregate_column" />
      </measurecollection>
    </category>
  </categorycollection>
</datadefinition>`

const testEntityMetadata = `[{"MetadataId":"3f2504e0-4f89-11d3-9a0c-0305e82c3301","LogicalName":"opportunity",
"DisplayName":"Opportunity","DisplayCollectionName":"Opportunities","ObjectTypeCode":3,
"PrimaryIdAttribute":"opportunityid","PrimaryNameAttribute":"name","EntityColor":"#0078d4"}]`

const testAttributeMetadata = `[
{"EntityLogicalName":"opportunity","LogicalName":"statuscode","DisplayName":"Status Reason",
 "AttributeType":"Status","Behavior":"OptionSet",
 "Options":[{"Label":"In Progress","Value":1,"Color":"#00ff00"},{"Label":"Won","Value":3,"Color":"#0000ff"}]}
]`

const testData = `00000123[
{"groupby_column":"In Progress","groupby_column_Value":1,"aggregate_column":"$1,500.00","aggregate_column_Value":1500},
{"groupby_column":"Won","groupby_column_Value":3,"aggregate_column":"$500.00","aggregate_column_Value":500}
]`

const testPresentation = `<Chart PaletteCustomColors="55,118,193">
  <Series><Series ChartType="Column"></Series></Series>
</Chart>`

func testRequest() *chart.Request {
	return &chart.Request{
		EntityMetadata:    testEntityMetadata,
		AttributeMetadata: testAttributeMetadata,
		Chart: chart.Definition{
			Name:                    "Pipeline",
			DataDescription:         testDataDescription,
			PresentationDescription: testPresentation,
		},
		Data: testData,
	}
}

func writeRequest(t *testing.T, req *chart.Request) string {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// quietFlags resets the persistent flags to defaults with error-level
// logging for the duration of a test.
func quietFlags(t *testing.T) {
	t.Helper()
	origCfg, origLevel, origFormat, origSource, origPretty := cfgFile, logLevel, logFormat, sourceType, pretty
	t.Cleanup(func() {
		cfgFile, logLevel, logFormat, sourceType, pretty = origCfg, origLevel, origFormat, origSource, origPretty
	})
	cfgFile = ""
	logLevel = "error"
	logFormat = ""
	sourceType = ""
	pretty = false
}
