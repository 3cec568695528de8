// ABOUTME: Company MCP tool handlers
// ABOUTME: Implements add_company, find_companies, update_company and delete_company tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
)

type CompanyHandlers struct {
	svc *crm.Service
}

func NewCompanyHandlers(svc *crm.Service) *CompanyHandlers {
	return &CompanyHandlers{svc: svc}
}

type AddCompanyInput struct {
	Name               string   `json:"name" jsonschema:"Company name (required)"`
	Type               string   `json:"type,omitempty" jsonschema:"utility, developer, epc, manufacturer, consultant or government (default utility)"`
	IndustrySegment    string   `json:"industry_segment,omitempty" jsonschema:"solar, wind, oil_gas, storage, grid or efficiency (default solar)"`
	City               string   `json:"city" jsonschema:"City (required)"`
	State              string   `json:"state" jsonschema:"State (required)"`
	Territory          string   `json:"territory,omitempty" jsonschema:"Sales territory"`
	Size               string   `json:"size,omitempty" jsonschema:"small, medium, large or enterprise (default medium)"`
	Revenue            *float64 `json:"revenue,omitempty" jsonschema:"Annual revenue in dollars"`
	RelationshipStatus string   `json:"relationship_status,omitempty" jsonschema:"prospect, active, inactive or competitor (default prospect)"`
}

func (h *CompanyHandlers) AddCompany(ctx context.Context, _ *mcp.CallToolRequest, input AddCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	company, err := h.svc.AddCompany(ctx, models.Company{
		Name:               input.Name,
		Type:               models.CompanyType(input.Type),
		IndustrySegment:    models.IndustrySegment(input.IndustrySegment),
		Location:           models.Location{City: input.City, State: input.State},
		Territory:          input.Territory,
		Size:               models.CompanySize(input.Size),
		Revenue:            input.Revenue,
		RelationshipStatus: models.RelationshipStatus(input.RelationshipStatus),
	})
	if err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to create company: %w", err)
	}
	return nil, companyToOutput(h.svc.State(), company), nil
}

type FindCompaniesInput struct {
	Query           string `json:"query,omitempty" jsonschema:"Search query (company name)"`
	Type            string `json:"type,omitempty" jsonschema:"Filter by company type"`
	IndustrySegment string `json:"industry_segment,omitempty" jsonschema:"Filter by industry segment"`
	Status          string `json:"relationship_status,omitempty" jsonschema:"Filter by relationship status"`
	Limit           int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindCompaniesOutput struct {
	Companies []CompanyOutput `json:"companies"`
}

func (h *CompanyHandlers) FindCompanies(_ context.Context, _ *mcp.CallToolRequest, input FindCompaniesInput) (*mcp.CallToolResult, FindCompaniesOutput, error) {
	st := h.svc.State()
	companies := query.Companies(st.Companies, query.CompanyFilter{
		Search:  input.Query,
		Type:    input.Type,
		Segment: input.IndustrySegment,
		Status:  input.Status,
	})
	companies = take(companies, limitOrDefault(input.Limit))

	return nil, FindCompaniesOutput{
		Companies: mapSlice(companies, func(c models.Company) CompanyOutput { return companyToOutput(st, c) }),
	}, nil
}

type UpdateCompanyInput struct {
	ID                 string   `json:"id" jsonschema:"Company ID (required)"`
	Name               string   `json:"name,omitempty" jsonschema:"Updated name"`
	Type               string   `json:"type,omitempty" jsonschema:"Updated company type"`
	IndustrySegment    string   `json:"industry_segment,omitempty" jsonschema:"Updated industry segment"`
	Size               string   `json:"size,omitempty" jsonschema:"Updated size"`
	Revenue            *float64 `json:"revenue,omitempty" jsonschema:"Updated annual revenue in dollars"`
	RelationshipStatus string   `json:"relationship_status,omitempty" jsonschema:"Updated relationship status"`
	PrimaryContactID   string   `json:"primary_contact_id,omitempty" jsonschema:"Updated primary contact ID"`
}

func (h *CompanyHandlers) UpdateCompany(ctx context.Context, _ *mcp.CallToolRequest, input UpdateCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	if input.ID == "" {
		return nil, CompanyOutput{}, fmt.Errorf("id is required")
	}

	company, err := h.svc.UpdateCompany(ctx, input.ID, func(c *models.Company) {
		overwrite(&c.Name, input.Name)
		overwrite(&c.Type, models.CompanyType(input.Type))
		overwrite(&c.IndustrySegment, models.IndustrySegment(input.IndustrySegment))
		overwrite(&c.Size, models.CompanySize(input.Size))
		overwrite(&c.RelationshipStatus, models.RelationshipStatus(input.RelationshipStatus))
		overwrite(&c.PrimaryContactID, input.PrimaryContactID)
		if input.Revenue != nil {
			c.Revenue = input.Revenue
		}
	})
	if err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to update company: %w", err)
	}
	return nil, companyToOutput(h.svc.State(), company), nil
}

func (h *CompanyHandlers) DeleteCompany(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := h.svc.DeleteCompany(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete company: %w", err)
	}
	return nil, DeleteOutput{Success: true, Message: fmt.Sprintf("Deleted company %s", input.ID)}, nil
}
