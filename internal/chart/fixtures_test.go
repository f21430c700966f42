package chart

const pipelineDataDescription = `<datadefinition>
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

const pipelineEntityMetadata = `[{"MetadataId":"3f2504e0-4f89-11d3-9a0c-0305e82c3301","LogicalName":"opportunity",
"DisplayName":"Opportunity","DisplayCollectionName":"Opportunities","ObjectTypeCode":3,
"PrimaryIdAttribute":"opportunityid","PrimaryNameAttribute":"name","EntityColor":"#0078d4"}]`

const pipelineAttributeMetadata = `[
{"EntityLogicalName":"opportunity","LogicalName":"statuscode","DisplayName":"Status Reason",
 "AttributeType":"Status","Behavior":"OptionSet",
 "Options":[{"Label":"In Progress","Value":1,"Color":"#00ff00"},{"Label":"Won","Value":3,"Color":"#0000ff"}]},
{"EntityLogicalName":"opportunity","LogicalName":"estimatedvalue","DisplayName":"Est. Revenue",
 "AttributeType":"Money","Behavior":"Simple"}
]`

const pipelineData = `00000123[
{"groupby_column":"In Progress","groupby_column_Value":1,"aggregate_column":"$1,500.00","aggregate_column_Value":1500},
{"groupby_column":"Won","groupby_column_Value":3,"aggregate_column":"$500.00","aggregate_column_Value":500},
{"groupby_column":null,"aggregate_column":"$20.00","aggregate_column_Value":20}
]`

const columnPresentation = `<Chart Palette="None" PaletteCustomColors="55,118,193; 197,56,52">
  <Series><Series ChartType="Column" IsValueShownAsLabel="True"></Series></Series>
  <ChartAreas><ChartArea><AxisY Title="Revenue" /></ChartArea></ChartAreas>
</Chart>`

const funnelPresentation = `<Chart>
  <Series><Series ChartType="Funnel"></Series></Series>
  <Legends><Legend Alignment="Center" LegendStyle="Table" /></Legends>
</Chart>`

func pipelineRequest(presentation string) *Request {
	return &Request{
		EntityMetadata:    pipelineEntityMetadata,
		AttributeMetadata: pipelineAttributeMetadata,
		Chart: Definition{
			Name:                    "Pipeline",
			DataDescription:         pipelineDataDescription,
			PresentationDescription: presentation,
		},
		Data: pipelineData,
	}
}
