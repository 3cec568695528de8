// ABOUTME: Dashboard and GraphViz visualization MCP handlers
// ABOUTME: Provides dashboard and generate_graph tools for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/viz"
)

type VizHandlers struct {
	svc *crm.Service
}

func NewVizHandlers(svc *crm.Service) *VizHandlers {
	return &VizHandlers{svc: svc}
}

type DashboardInput struct{}

type DashboardOutput struct {
	Stats *viz.DashboardStats `json:"stats"`
	Text  string              `json:"text"`
}

func (h *VizHandlers) Dashboard(_ context.Context, _ *mcp.CallToolRequest, _ DashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	stats := viz.GenerateDashboardStats(h.svc.State(), h.svc.Now())
	return nil, DashboardOutput{Stats: stats, Text: viz.RenderDashboard(stats)}, nil
}

type GenerateGraphInput struct {
	Type     string `json:"type" jsonschema:"Graph type: pipeline, company or all"`
	EntityID string `json:"entity_id,omitempty" jsonschema:"Company ID or name (required for company)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(_ context.Context, _ *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if input.Type == "" {
		return nil, GenerateGraphOutput{}, fmt.Errorf("type is required")
	}

	st := h.svc.State()
	generator := viz.NewGraphGenerator(st)
	var dot string
	var err error

	switch input.Type {
	case "pipeline":
		dot, err = generator.GeneratePipelineGraph()

	case "company":
		if input.EntityID == "" {
			return nil, GenerateGraphOutput{}, fmt.Errorf("entity_id required for company graph")
		}
		company, ok := crm.FindCompany(st, input.EntityID)
		if !ok {
			return nil, GenerateGraphOutput{}, fmt.Errorf("company not found: %s", input.EntityID)
		}
		dot, err = generator.GenerateCompanyGraph(company.ID)

	case "all":
		dot, err = generator.GenerateCompleteGraph()

	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s (valid types: pipeline, company, all)", input.Type)
	}

	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: strings.Count(dot, "label="),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}
