// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal, find_deals, update_deal, move_deal and delete_deal tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
)

type DealHandlers struct {
	svc *crm.Service
}

func NewDealHandlers(svc *crm.Service) *DealHandlers {
	return &DealHandlers{svc: svc}
}

type CreateDealInput struct {
	Name        string   `json:"name" jsonschema:"Deal name (required)"`
	Company     string   `json:"company" jsonschema:"Company ID or name (required, must exist)"`
	ContactID   string   `json:"contact_id" jsonschema:"Contact ID (required)"`
	ProjectType string   `json:"project_type,omitempty" jsonschema:"Project type (default solar_utility)"`
	CapacityMW  *float64 `json:"capacity_mw,omitempty" jsonschema:"Capacity in megawatts"`
	Value       float64  `json:"value" jsonschema:"Deal value in dollars (required, positive)"`
	Probability *int     `json:"probability,omitempty" jsonschema:"Win probability 0-100 (default 50)"`
	Stage       string   `json:"stage,omitempty" jsonschema:"Stage: lead, qualification, needs_analysis, proposal, negotiation, contract_review, closed_won, closed_lost (default lead)"`
	CloseDate   string   `json:"close_date,omitempty" jsonschema:"Expected close date, YYYY-MM-DD or RFC 3339 (default today)"`
	Owner       string   `json:"owner,omitempty" jsonschema:"Assigned user ID or name (default: current user)"`
	Notes       string   `json:"notes,omitempty" jsonschema:"Notes"`
}

func (h *DealHandlers) CreateDeal(ctx context.Context, _ *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	deal := models.Deal{
		Name:        input.Name,
		ContactID:   input.ContactID,
		ProjectType: models.ProjectType(input.ProjectType),
		Capacity:    input.CapacityMW,
		Value:       input.Value,
		Probability: crm.DefaultProbability,
		Stage:       models.Stage(input.Stage),
		Notes:       input.Notes,
	}
	if input.Probability != nil {
		deal.Probability = *input.Probability
	}
	if input.Company != "" {
		company, ok := crm.FindCompany(h.svc.State(), input.Company)
		if !ok {
			return nil, DealOutput{}, fmt.Errorf("company not found: %s", input.Company)
		}
		deal.CompanyID = company.ID
		deal.Location = company.Location
	}
	if input.CloseDate != "" {
		t, err := parseTime(input.CloseDate)
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid close_date: %w", err)
		}
		deal.CloseDate = t
	}
	owner, err := resolveUser(h.svc, input.Owner)
	if err != nil {
		return nil, DealOutput{}, err
	}
	deal.AssignedUserID = owner

	deal, err = h.svc.AddDeal(ctx, deal)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}
	return nil, dealToOutput(h.svc.State(), deal), nil
}

type FindDealsInput struct {
	Query       string `json:"query,omitempty" jsonschema:"Search query (deal name)"`
	Stage       string `json:"stage,omitempty" jsonschema:"Filter by stage"`
	ProjectType string `json:"project_type,omitempty" jsonschema:"Filter by project type"`
	CompanyID   string `json:"company_id,omitempty" jsonschema:"Filter by company ID"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindDealsOutput struct {
	Deals         []DealOutput `json:"deals"`
	PipelineValue float64      `json:"pipeline_value"`
	WinRate       float64      `json:"win_rate"`
}

func (h *DealHandlers) FindDeals(_ context.Context, _ *mcp.CallToolRequest, input FindDealsInput) (*mcp.CallToolResult, FindDealsOutput, error) {
	st := h.svc.State()
	deals := query.Deals(st.Deals, query.DealFilter{Search: input.Query, Stage: input.Stage, ProjectType: input.ProjectType})
	if input.CompanyID != "" {
		deals = filter(deals, func(d models.Deal) bool { return d.CompanyID == input.CompanyID })
	}
	stats := query.ComputeDealStats(deals)
	deals = take(deals, limitOrDefault(input.Limit))

	return nil, FindDealsOutput{
		Deals:         mapSlice(deals, func(d models.Deal) DealOutput { return dealToOutput(st, d) }),
		PipelineValue: stats.PipelineValue,
		WinRate:       stats.WinRate,
	}, nil
}

type UpdateDealInput struct {
	ID          string   `json:"id" jsonschema:"Deal ID (required)"`
	Name        string   `json:"name,omitempty" jsonschema:"Updated deal name"`
	ContactID   string   `json:"contact_id,omitempty" jsonschema:"Updated contact ID"`
	ProjectType string   `json:"project_type,omitempty" jsonschema:"Updated project type"`
	CapacityMW  *float64 `json:"capacity_mw,omitempty" jsonschema:"Updated capacity in megawatts"`
	Value       *float64 `json:"value,omitempty" jsonschema:"Updated value in dollars"`
	Probability *int     `json:"probability,omitempty" jsonschema:"Updated win probability 0-100"`
	Stage       string   `json:"stage,omitempty" jsonschema:"Updated stage"`
	CloseDate   string   `json:"close_date,omitempty" jsonschema:"Updated expected close date"`
	Notes       string   `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *DealHandlers) UpdateDeal(ctx context.Context, _ *mcp.CallToolRequest, input UpdateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ID == "" {
		return nil, DealOutput{}, fmt.Errorf("id is required")
	}
	var closeAt *time.Time
	if input.CloseDate != "" {
		t, err := parseTime(input.CloseDate)
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid close_date: %w", err)
		}
		closeAt = &t
	}

	deal, err := h.svc.UpdateDeal(ctx, input.ID, func(d *models.Deal) {
		overwrite(&d.Name, input.Name)
		overwrite(&d.ContactID, input.ContactID)
		overwrite(&d.ProjectType, models.ProjectType(input.ProjectType))
		overwrite(&d.Stage, models.Stage(input.Stage))
		overwrite(&d.Notes, input.Notes)
		if input.CapacityMW != nil {
			d.Capacity = input.CapacityMW
		}
		if input.Value != nil {
			d.Value = *input.Value
		}
		if input.Probability != nil {
			d.Probability = *input.Probability
		}
		if closeAt != nil {
			d.CloseDate = *closeAt
		}
	})
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to update deal: %w", err)
	}
	return nil, dealToOutput(h.svc.State(), deal), nil
}

type MoveDealInput struct {
	ID    string `json:"id" jsonschema:"Deal ID (required)"`
	Stage string `json:"stage" jsonschema:"Target stage (required)"`
}

func (h *DealHandlers) MoveDeal(ctx context.Context, _ *mcp.CallToolRequest, input MoveDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ID == "" {
		return nil, DealOutput{}, fmt.Errorf("id is required")
	}
	deal, err := h.svc.MoveDeal(ctx, input.ID, models.Stage(input.Stage))
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to move deal: %w", err)
	}
	return nil, dealToOutput(h.svc.State(), deal), nil
}

func (h *DealHandlers) DeleteDeal(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := h.svc.DeleteDeal(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete deal: %w", err)
	}
	return nil, DeleteOutput{Success: true, Message: fmt.Sprintf("Deleted deal %s", input.ID)}, nil
}
