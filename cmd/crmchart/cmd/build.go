package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildRequest      string
	buildOutput       string
	buildMetadataFile string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a chart configuration from a request file",
	Long: `Build reads a chart build request, resolves the entity metadata it
needs and writes the generated chart configuration as JSON.

Entities the request does not describe are looked up in the configured
metadata source (MySQL table or Redis cache), or in --metadata-file.

Example:
  crmchart build --request pipeline.json --pretty
  crmchart build -c crmchart.yaml -r pipeline.json -o pipeline.chart.json`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildRequest, "request", "r", "", "Path to the build request (required)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Write the chart config to this file instead of stdout")
	buildCmd.Flags().StringVar(&buildMetadataFile, "metadata-file", "", "Serve missing entity metadata from this file")
	_ = buildCmd.MarkFlagRequired("request")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildRequest == "" {
		return fmt.Errorf("--request is required")
	}

	cfg, env, err := buildChart(cmd, buildRequest, buildMetadataFile)
	if err != nil {
		return err
	}
	defer env.Close()

	var out []byte
	if env.cfg.Output.Pretty {
		out, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		out, err = json.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode chart config: %w", err)
	}
	out = append(out, '\n')

	path := buildOutput
	if path == "" {
		path = env.cfg.Output.Path
	}
	if path == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write chart config: %w", err)
	}
	env.log.Infow("Chart config written", "path", path)
	return nil
}
