// Package chart assembles a chart configuration from a build request: it
// resolves metadata, materializes result rows, builds the view model and
// generates the post-processed chart config.
package chart

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dbsmedya/crmchart/internal/types"
)

// Definition is the caller-supplied description of a chart.
type Definition struct {
	Name                    string `json:"name"`
	DataDescription         string `json:"dataDescription"`
	PresentationDescription string `json:"presentationDescription"`
}

// Request carries everything one build needs. The metadata, overrides and
// data fields hold serialized payloads as produced upstream.
type Request struct {
	EntityMetadata    string     `json:"entityMetadata"`
	AttributeMetadata string     `json:"attributeMetadata"`
	ResourceOverrides string     `json:"resourceOverrides"`
	Chart             Definition `json:"chart"`
	FetchXML          string     `json:"fetchXml"`
	Data              string     `json:"data"`
}

// Validate checks the fields a build cannot do without.
func (r *Request) Validate() error {
	if r.Chart.DataDescription == "" {
		return types.NewPayloadError("request", fmt.Errorf("chart.dataDescription is required"))
	}
	return nil
}

// ParseRequest decodes a serialized build request.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, types.NewPayloadError("request", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// LoadRequest reads and decodes a build request file.
func LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	return ParseRequest(data)
}

// ViewMetadata identifies the entity a chart's view is bound to.
type ViewMetadata struct {
	EntityLogicalName string
}

// VizMetadata identifies the visualization: its entity and display title.
type VizMetadata struct {
	EntityLogicalName string
	Title             string
}
