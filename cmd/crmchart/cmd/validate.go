package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/crmchart/internal/chart"
	"github.com/dbsmedya/crmchart/internal/config"
	"github.com/dbsmedya/crmchart/internal/metadata"
	"github.com/dbsmedya/crmchart/internal/query"
	"github.com/dbsmedya/crmchart/internal/resource"
)

var validateRequest string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and an optional build request",
	Long: `Validate checks the configuration file and, when --request is given,
parses the request without building a chart.

Checks performed:
  - Configuration syntax and required fields
  - Metadata source settings
  - Request payloads (entity metadata, attribute metadata, overrides)
  - Data description and fetch expression
  - Aggregate query setup (aliases, categories, measures)
  - Presentation description

Example:
  crmchart validate --config crmchart.yaml --request pipeline.json`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateRequest, "request", "r", "", "Path to a build request to check")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Printf("\n=== Configuration ===\n")
	if GetConfigFile() != "" {
		cmd.Printf("Config file:     %s\n", GetConfigFile())
	} else {
		cmd.Printf("Config file:     (defaults)\n")
	}
	cmd.Printf("Metadata source: %s\n", describeSource(&cfg.MetadataSource))
	cmd.Printf("Logging:         %s/%s\n", cfg.Logging.Level, cfg.Logging.Format)

	if validateRequest == "" {
		cmd.Printf("\n✓ Configuration is valid\n")
		return nil
	}

	def, err := checkRequest(validateRequest)
	if err != nil {
		return fmt.Errorf("request %s: %w", validateRequest, err)
	}

	cmd.Printf("\n=== Request ===\n")
	cmd.Printf("Primary entity:  %s\n", def.PrimaryEntity())
	cmd.Printf("Entities:        %s\n", strings.Join(def.EntityNames(), ", "))
	cmd.Printf("Aggregate:       %t\n", def.IsAggregate())
	for _, c := range def.CategoryColumns() {
		cmd.Printf("Category:        %s (%s.%s)\n", c.Column(), c.EntityName, c.LogicalName)
	}
	for _, m := range def.Measures() {
		cmd.Printf("Measure:         %s (%s of %s)\n", m.Column(), m.Aggregate, m.LogicalName)
	}

	cmd.Printf("\n✓ Configuration and request are valid\n")
	return nil
}

func describeSource(cfg *config.MetadataSourceConfig) string {
	switch cfg.Type {
	case config.SourceMySQL:
		return fmt.Sprintf("mysql %s:%d/%s table %s", cfg.MySQL.Host, cfg.MySQL.Port, cfg.MySQL.Database, cfg.MySQL.Table)
	case config.SourceRedis:
		return fmt.Sprintf("redis %s db %d", cfg.Redis.Addr, cfg.Redis.DB)
	default:
		return config.SourceNone
	}
}

// checkRequest parses every payload of the request file and prepares its
// query without resolving metadata or reading rows.
func checkRequest(path string) (*query.Decorator, error) {
	req, err := chart.LoadRequest(path)
	if err != nil {
		return nil, err
	}
	if _, err := metadata.LoadEntityMetadata(req.EntityMetadata); err != nil {
		return nil, err
	}
	if _, err := metadata.LoadAttributeMetadata(req.AttributeMetadata); err != nil {
		return nil, err
	}
	if _, err := resource.ParseOverrides(req.ResourceOverrides); err != nil {
		return nil, err
	}
	if _, err := chart.ParsePresentation(req.Chart.PresentationDescription); err != nil {
		return nil, err
	}

	def, err := query.NewDecorator(req.Chart.DataDescription, req.FetchXML)
	if err != nil {
		return nil, err
	}
	if err := def.SetupAggregationQuery(); err != nil {
		return nil, err
	}
	return def, nil
}
