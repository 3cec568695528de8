// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Read-only JSON views of each collection and the dashboard via crm:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/store"
	"github.com/harperreed/energycrm/viz"
)

// ResourceURIs lists the fixed resources; single records live under
// crm://<collection>/<id>.
var ResourceURIs = []string{"crm://contacts", "crm://companies", "crm://deals", "crm://activities", "crm://dashboard"}

type ResourceHandlers struct {
	svc *crm.Service
}

func NewResourceHandlers(svc *crm.Service) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(_ context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	parts := strings.Split(strings.TrimPrefix(uri, "crm://"), "/")
	st := h.svc.State()
	var id string
	if len(parts) > 1 {
		id = parts[1]
	}

	var payload any
	var err error
	switch parts[0] {
	case "contacts":
		payload, err = collection(st, st.Contacts, id, store.State.FindContact, contactToOutput)
	case "companies":
		payload, err = collection(st, st.Companies, id, store.State.FindCompany, companyToOutput)
	case "deals":
		payload, err = collection(st, st.Deals, id, store.State.FindDeal, dealToOutput)
	case "activities":
		payload, err = collection(st, st.Activities, id, store.State.FindActivity, activityToOutput)
	case "dashboard":
		payload = viz.GenerateDashboardStats(st, h.svc.Now())
	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", parts[0], err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func collection[T any, O any](st store.State, items []T, id string, find func(store.State, string) (T, bool), convert func(store.State, T) O) (any, error) {
	if id == "" {
		return mapSlice(items, func(item T) O { return convert(st, item) }), nil
	}
	item, ok := find(st, id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, store.ErrNotFound)
	}
	return convert(st, item), nil
}
