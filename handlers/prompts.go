// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Pipeline review, company account review and follow-up planning
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/query"
	"github.com/harperreed/energycrm/viz"
)

// Prompts describes the templates GetPrompt serves.
var Prompts = []*mcp.Prompt{
	{Name: "deal-analysis", Description: "Analyze pipeline health and deals needing attention"},
	{
		Name:        "company-overview",
		Description: "Account review for one company with its contacts and deals",
		Arguments:   []*mcp.PromptArgument{{Name: "company", Description: "Company ID or name", Required: true}},
	},
	{
		Name:        "follow-up-suggestions",
		Description: "Plan the next follow-ups from logged activities",
		Arguments:   []*mcp.PromptArgument{{Name: "days", Description: "Look-ahead window in days (default 7)"}},
	},
}

type PromptHandlers struct {
	svc *crm.Service
}

func NewPromptHandlers(svc *crm.Service) *PromptHandlers {
	return &PromptHandlers{svc: svc}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(_ context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := request.Params.Arguments
	switch request.Params.Name {
	case "deal-analysis":
		return h.dealAnalysis()
	case "company-overview":
		return h.companyOverview(args)
	case "follow-up-suggestions":
		return h.followUpSuggestions(args)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) dealAnalysis() (*mcp.GetPromptResult, error) {
	stats := viz.GenerateDashboardStats(h.svc.State(), h.svc.Now())

	var b strings.Builder
	b.WriteString("Please analyze the current energy project pipeline:\n\n")
	fmt.Fprintf(&b, "Open Deals: %d\n", stats.OpenDeals)
	fmt.Fprintf(&b, "Total Value: %s (average %s)\n", viz.Money(stats.TotalValue), viz.Money(stats.AverageValue))
	fmt.Fprintf(&b, "Win Rate: %.0f%%\n\n", stats.WinRate)
	b.WriteString("Pipeline by Stage:\n")
	for _, s := range stats.PipelineByStage {
		fmt.Fprintf(&b, "  - %s: %d deals, %s\n", s.Stage.Label(), s.Count, viz.Money(s.Value))
	}
	if len(stats.StaleDeals) > 0 {
		b.WriteString("\nNo activity in over two weeks:\n")
		for _, d := range stats.StaleDeals {
			fmt.Fprintf(&b, "  - %s (%d days)\n", d.Name, d.DaysSince)
		}
	}

	b.WriteString("\nPlease provide:")
	b.WriteString("\n1. Analysis of pipeline health and distribution")
	b.WriteString("\n2. Recommendations for deals that may need attention")
	b.WriteString("\n3. Suggestions for improving conversion rates")

	return userPrompt("Deal pipeline analysis", b.String()), nil
}

func (h *PromptHandlers) companyOverview(args map[string]string) (*mcp.GetPromptResult, error) {
	ref, ok := args["company"]
	if !ok || ref == "" {
		return nil, fmt.Errorf("company is required")
	}
	st := h.svc.State()
	company, ok := crm.FindCompany(st, ref)
	if !ok {
		return nil, fmt.Errorf("company not found: %s", ref)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Prepare an account review for %s.\n\n", company.Name)
	fmt.Fprintf(&b, "Type: %s, segment: %s, size: %s\n", company.Type, company.IndustrySegment, company.Size)
	fmt.Fprintf(&b, "Location: %s, %s\n", company.Location.City, company.Location.State)
	fmt.Fprintf(&b, "Relationship: %s\n", company.RelationshipStatus)
	if company.Revenue != nil {
		fmt.Fprintf(&b, "Annual revenue: %s\n", viz.Money(*company.Revenue))
	}

	contacts := query.CompanyContacts(st, company.ID)
	fmt.Fprintf(&b, "\nContacts (%d):\n", len(contacts))
	for _, c := range contacts {
		fmt.Fprintf(&b, "  - %s, %s (%s)\n", c.Name, c.Title, c.Status)
	}

	deals := query.CompanyDeals(st, company.ID)
	fmt.Fprintf(&b, "\nDeals (%d, %s total):\n", len(deals), viz.Money(query.CompanyDealValue(st, company.ID)))
	for _, d := range deals {
		fmt.Fprintf(&b, "  - %s: %s, %s, %d%%\n", d.Name, d.Stage.Label(), viz.Money(d.Value), d.Probability)
	}

	b.WriteString("\nPlease provide:")
	b.WriteString("\n1. A summary of the relationship and its value")
	b.WriteString("\n2. Risks and open questions across the deals")
	b.WriteString("\n3. Who to engage next and why")

	return userPrompt(fmt.Sprintf("Overview of %s", company.Name), b.String()), nil
}

func (h *PromptHandlers) followUpSuggestions(args map[string]string) (*mcp.GetPromptResult, error) {
	days := 7
	if raw := args["days"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid days: %s", raw)
		}
		days = n
	}

	st := h.svc.State()
	due := crm.Followups(st, h.svc.Now(), time.Duration(days)*24*time.Hour)

	var b strings.Builder
	fmt.Fprintf(&b, "These follow-ups are overdue or due within %d days:\n\n", days)
	if len(due) == 0 {
		b.WriteString("(none)\n")
	}
	for _, f := range due {
		status := fmt.Sprintf("due in %d days", f.DaysUntil)
		if f.Overdue {
			status = "OVERDUE"
		}
		fmt.Fprintf(&b, "- %s [%s]", f.Activity.Subject, status)
		if f.Activity.DealID != "" {
			fmt.Fprintf(&b, " deal: %s", query.DealName(st, f.Activity.DealID))
		}
		if f.Activity.NextSteps != "" {
			fmt.Fprintf(&b, "\n  next steps: %s", f.Activity.NextSteps)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nSuggest an order to work through these and a short message for each.")

	return userPrompt("Follow-up suggestions", b.String()), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}
