// ABOUTME: Activity MCP tool handlers
// ABOUTME: Implements log_activity, find_activities, update_activity, delete_activity and list_followups tools
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

type ActivityHandlers struct {
	svc *crm.Service
}

func NewActivityHandlers(svc *crm.Service) *ActivityHandlers {
	return &ActivityHandlers{svc: svc}
}

type LogActivityInput struct {
	Type            string `json:"type,omitempty" jsonschema:"phone_call, email, meeting, site_visit, proposal_submission, technical_review or contract_discussion (default phone_call)"`
	Subject         string `json:"subject" jsonschema:"Subject (required)"`
	Description     string `json:"description" jsonschema:"What happened (required)"`
	ContactID       string `json:"contact_id,omitempty" jsonschema:"Contact ID"`
	DealID          string `json:"deal_id,omitempty" jsonschema:"Deal ID"`
	Date            string `json:"date,omitempty" jsonschema:"When it happened, RFC 3339 (default now)"`
	DurationMinutes *int   `json:"duration_minutes,omitempty" jsonschema:"Duration in minutes"`
	Outcome         string `json:"outcome,omitempty" jsonschema:"positive, neutral or negative (default neutral)"`
	NextSteps       string `json:"next_steps,omitempty" jsonschema:"Agreed next steps"`
	FollowUpDate    string `json:"follow_up_date,omitempty" jsonschema:"Follow-up date, YYYY-MM-DD or RFC 3339"`
}

// LogActivity records an activity for the current user.
func (h *ActivityHandlers) LogActivity(ctx context.Context, _ *mcp.CallToolRequest, input LogActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	act := models.Activity{
		Type:        models.ActivityType(input.Type),
		Subject:     input.Subject,
		Description: input.Description,
		ContactID:   input.ContactID,
		DealID:      input.DealID,
		UserID:      h.svc.CurrentUserID(),
		Duration:    input.DurationMinutes,
		Outcome:     models.Outcome(input.Outcome),
		NextSteps:   input.NextSteps,
	}
	if input.Date != "" {
		t, err := parseTime(input.Date)
		if err != nil {
			return nil, ActivityOutput{}, fmt.Errorf("invalid date: %w", err)
		}
		act.Date = t
	}
	if input.FollowUpDate != "" {
		t, err := parseTime(input.FollowUpDate)
		if err != nil {
			return nil, ActivityOutput{}, fmt.Errorf("invalid follow_up_date: %w", err)
		}
		act.FollowUpDate = &t
	}

	act, err := h.svc.AddActivity(ctx, act)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}
	return nil, activityToOutput(h.svc.State(), act), nil
}

type FindActivitiesInput struct {
	Query   string `json:"query,omitempty" jsonschema:"Search subject and description"`
	Type    string `json:"type,omitempty" jsonschema:"Filter by activity type"`
	Outcome string `json:"outcome,omitempty" jsonschema:"Filter by outcome"`
	DealID  string `json:"deal_id,omitempty" jsonschema:"Filter by deal ID"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindActivitiesOutput struct {
	Activities []ActivityOutput `json:"activities"`
}

func (h *ActivityHandlers) FindActivities(_ context.Context, _ *mcp.CallToolRequest, input FindActivitiesInput) (*mcp.CallToolResult, FindActivitiesOutput, error) {
	st := h.svc.State()
	acts := query.Activities(st.Activities, query.ActivityFilter{Search: input.Query, Type: input.Type, Outcome: input.Outcome})
	if input.DealID != "" {
		acts = filter(acts, func(a models.Activity) bool { return a.DealID == input.DealID })
	}
	acts = take(acts, limitOrDefault(input.Limit))

	return nil, FindActivitiesOutput{
		Activities: mapSlice(acts, func(a models.Activity) ActivityOutput { return activityToOutput(st, a) }),
	}, nil
}

type UpdateActivityInput struct {
	ID            string `json:"id" jsonschema:"Activity ID (required)"`
	Subject       string `json:"subject,omitempty" jsonschema:"New subject"`
	Description   string `json:"description,omitempty" jsonschema:"New description"`
	Outcome       string `json:"outcome,omitempty" jsonschema:"positive, neutral or negative"`
	NextSteps     string `json:"next_steps,omitempty" jsonschema:"Agreed next steps"`
	FollowUpDate  string `json:"follow_up_date,omitempty" jsonschema:"Follow-up date, YYYY-MM-DD or RFC 3339"`
	ClearFollowUp bool   `json:"clear_follow_up,omitempty" jsonschema:"Mark the follow-up as done"`
}

func (h *ActivityHandlers) UpdateActivity(ctx context.Context, _ *mcp.CallToolRequest, input UpdateActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	if input.ID == "" {
		return nil, ActivityOutput{}, fmt.Errorf("id is required")
	}
	var followUp *time.Time
	if input.FollowUpDate != "" {
		t, err := parseTime(input.FollowUpDate)
		if err != nil {
			return nil, ActivityOutput{}, fmt.Errorf("invalid follow_up_date: %w", err)
		}
		followUp = &t
	}

	act, err := h.svc.UpdateActivity(ctx, input.ID, func(a *models.Activity) {
		overwrite(&a.Subject, input.Subject)
		overwrite(&a.Description, input.Description)
		overwrite(&a.Outcome, models.Outcome(input.Outcome))
		overwrite(&a.NextSteps, input.NextSteps)
		switch {
		case input.ClearFollowUp:
			a.FollowUpDate = nil
		case followUp != nil:
			a.FollowUpDate = followUp
		}
	})
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to update activity: %w", err)
	}
	return nil, activityToOutput(h.svc.State(), act), nil
}

func (h *ActivityHandlers) DeleteActivity(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := h.svc.DeleteActivity(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil, DeleteOutput{Success: true, Message: fmt.Sprintf("Deleted activity %s", input.ID)}, nil
}

type ListFollowupsInput struct {
	Days int `json:"days,omitempty" jsonschema:"Look-ahead window in days (default 7)"`
}

type FollowupOutput struct {
	Activity  ActivityOutput `json:"activity"`
	Due       string         `json:"due"`
	DaysUntil int            `json:"days_until"`
	Overdue   bool           `json:"overdue"`
}

type ListFollowupsOutput struct {
	Followups []FollowupOutput `json:"followups"`
}

func (h *ActivityHandlers) ListFollowups(_ context.Context, _ *mcp.CallToolRequest, input ListFollowupsInput) (*mcp.CallToolResult, ListFollowupsOutput, error) {
	days := input.Days
	if days <= 0 {
		days = 7
	}
	st := h.svc.State()
	due := crm.Followups(st, h.svc.Now(), time.Duration(days)*24*time.Hour)

	return nil, ListFollowupsOutput{
		Followups: mapSlice(due, func(f crm.Followup) FollowupOutput {
			return FollowupOutput{
				Activity:  activityToOutput(st, f.Activity),
				Due:       timestamp(f.Due),
				DaysUntil: f.DaysUntil,
				Overdue:   f.Overdue,
			}
		}),
	}, nil
}
