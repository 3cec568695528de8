// ABOUTME: Universal query tool handler
// ABOUTME: Search plus an expression filter across every CRM collection
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
)

type QueryHandlers struct {
	svc *crm.Service
}

func NewQueryHandlers(svc *crm.Service) *QueryHandlers {
	return &QueryHandlers{svc: svc}
}

type QueryCRMInput struct {
	EntityType string `json:"entity_type" jsonschema:"Type of entity to query (contact, company, deal, activity)"`
	Query      string `json:"query,omitempty" jsonschema:"Search text, matched like the list screens do"`
	Where      string `json:"where,omitempty" jsonschema:"Boolean expression over record fields, e.g. stage == 'proposal' && value > 1e6"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type QueryCRMOutput struct {
	EntityType string `json:"entity_type"`
	Results    []any  `json:"results"`
	Count      int    `json:"count"`
}

func (h *QueryHandlers) QueryCRM(_ context.Context, _ *mcp.CallToolRequest, input QueryCRMInput) (*mcp.CallToolResult, QueryCRMOutput, error) {
	var where *query.Expr
	if input.Where != "" {
		e, err := query.Compile(input.Where)
		if err != nil {
			return nil, QueryCRMOutput{}, err
		}
		where = e
	}

	st := h.svc.State()
	var results []any
	var err error
	switch input.EntityType {
	case "contact":
		results, err = run(where, query.Contacts(st.Contacts, query.ContactFilter{Search: input.Query}), input.Limit,
			func(c models.Contact) any { return contactToOutput(st, c) })
	case "company":
		results, err = run(where, query.Companies(st.Companies, query.CompanyFilter{Search: input.Query}), input.Limit,
			func(c models.Company) any { return companyToOutput(st, c) })
	case "deal":
		results, err = run(where, query.Deals(st.Deals, query.DealFilter{Search: input.Query}), input.Limit,
			func(d models.Deal) any { return dealToOutput(st, d) })
	case "activity":
		results, err = run(where, query.Activities(st.Activities, query.ActivityFilter{Search: input.Query}), input.Limit,
			func(a models.Activity) any { return activityToOutput(st, a) })
	default:
		return nil, QueryCRMOutput{}, fmt.Errorf("invalid entity_type: %s (valid: contact, company, deal, activity)", input.EntityType)
	}
	if err != nil {
		return nil, QueryCRMOutput{}, err
	}

	return nil, QueryCRMOutput{EntityType: input.EntityType, Results: results, Count: len(results)}, nil
}

// run applies the expression to raw records, so field names are the stored
// ones, then limits and converts.
func run[T any](where *query.Expr, records []T, limit int, convert func(T) any) ([]any, error) {
	selected, err := query.Select(where, records)
	if err != nil {
		return nil, err
	}
	return mapSlice(take(selected, limitOrDefault(limit)), convert), nil
}
