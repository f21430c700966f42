package query

const opportunityDataDescription = `<datadefinition>
  <fetchcollection>
    <fetch mapping="logical" aggregate="true">
      <entity name="opportunity">
        <attribute alias="aggregate_column" name="estimatedvalue" aggregate="sum" />
        <attribute groupby="true" alias="groupby_column" name="stepname" />
        <link-entity name="account" from="accountid" to="parentaccountid" alias="acc">
          <attribute groupby="true" alias="acc_industry" name="industrycode" />
        </link-entity>
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

const openOpportunitiesFetch = `<fetch version="1.0" mapping="logical">
  <entity name="opportunity">
    <attribute name="name" />
    <filter type="and"><condition attribute="statecode" operator="eq" value="0" /></filter>
    <link-entity name="systemuser" from="systemuserid" to="ownerid" alias="owner">
      <link-entity name="businessunit" from="businessunitid" to="businessunitid" alias="bu" />
    </link-entity>
    <link-entity name="account" from="accountid" to="parentaccountid" alias="acc" />
  </entity>
</fetch>`
