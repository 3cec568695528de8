// ABOUTME: Tool output shapes and record-to-output conversion
// ABOUTME: Timestamps are RFC 3339 strings, references carry resolved names
package handlers

import (
	"time"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
	"github.com/harperreed/energycrm/store"
)

type ContactOutput struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Title           string `json:"title,omitempty"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	CompanyID       string `json:"company_id"`
	CompanyName     string `json:"company_name"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	Territory       string `json:"territory,omitempty"`
	AssignedUserID  string `json:"assigned_user_id"`
	Owner           string `json:"owner"`
	Status          string `json:"status"`
	Notes           string `json:"notes,omitempty"`
	CreatedDate     string `json:"created_date"`
	LastContactDate string `json:"last_contact_date,omitempty"`
}

type CompanyOutput struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	IndustrySegment    string   `json:"industry_segment"`
	City               string   `json:"city"`
	State              string   `json:"state"`
	Territory          string   `json:"territory,omitempty"`
	Size               string   `json:"size"`
	Revenue            *float64 `json:"revenue,omitempty"`
	RelationshipStatus string   `json:"relationship_status"`
	ContactCount       int      `json:"contact_count"`
	DealValue          float64  `json:"deal_value"`
	CreatedDate        string   `json:"created_date"`
}

type DealOutput struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CompanyID   string   `json:"company_id"`
	CompanyName string   `json:"company_name"`
	ContactID   string   `json:"contact_id"`
	ContactName string   `json:"contact_name"`
	ProjectType string   `json:"project_type"`
	CapacityMW  *float64 `json:"capacity_mw,omitempty"`
	Value       float64  `json:"value"`
	Probability int      `json:"probability"`
	Stage       string   `json:"stage"`
	StageLabel  string   `json:"stage_label"`
	Progress    int      `json:"progress"`
	CloseDate   string   `json:"close_date"`
	Owner       string   `json:"owner"`
	Notes       string   `json:"notes,omitempty"`
	CreatedDate string   `json:"created_date"`
}

type ActivityOutput struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Subject      string `json:"subject"`
	Description  string `json:"description"`
	ContactID    string `json:"contact_id,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	DealID       string `json:"deal_id,omitempty"`
	DealName     string `json:"deal_name,omitempty"`
	User         string `json:"user"`
	Date         string `json:"date"`
	Duration     *int   `json:"duration_minutes,omitempty"`
	Outcome      string `json:"outcome,omitempty"`
	NextSteps    string `json:"next_steps,omitempty"`
	FollowUpDate string `json:"follow_up_date,omitempty"`
}

type UserOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Territory string `json:"territory,omitempty"`
	Current   bool   `json:"current"`
}

// DeleteOutput is shared by all delete tools.
type DeleteOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func contactToOutput(st store.State, c models.Contact) ContactOutput {
	return ContactOutput{
		ID:              c.ID,
		Name:            c.Name,
		Title:           c.Title,
		Email:           c.Email,
		Phone:           c.Phone,
		CompanyID:       c.CompanyID,
		CompanyName:     query.CompanyName(st, c.CompanyID),
		City:            c.Location.City,
		State:           c.Location.State,
		Territory:       c.Territory,
		AssignedUserID:  c.AssignedUserID,
		Owner:           query.OwnerName(st, c.AssignedUserID),
		Status:          string(c.Status),
		Notes:           c.Notes,
		CreatedDate:     timestamp(c.CreatedDate),
		LastContactDate: optionalTimestamp(c.LastContactDate),
	}
}

func companyToOutput(st store.State, c models.Company) CompanyOutput {
	return CompanyOutput{
		ID:                 c.ID,
		Name:               c.Name,
		Type:               string(c.Type),
		IndustrySegment:    string(c.IndustrySegment),
		City:               c.Location.City,
		State:              c.Location.State,
		Territory:          c.Territory,
		Size:               string(c.Size),
		Revenue:            c.Revenue,
		RelationshipStatus: string(c.RelationshipStatus),
		ContactCount:       len(query.CompanyContacts(st, c.ID)),
		DealValue:          query.CompanyDealValue(st, c.ID),
		CreatedDate:        timestamp(c.CreatedDate),
	}
}

func dealToOutput(st store.State, d models.Deal) DealOutput {
	return DealOutput{
		ID:          d.ID,
		Name:        d.Name,
		CompanyID:   d.CompanyID,
		CompanyName: query.CompanyName(st, d.CompanyID),
		ContactID:   d.ContactID,
		ContactName: query.ContactName(st, d.ContactID),
		ProjectType: string(d.ProjectType),
		CapacityMW:  d.Capacity,
		Value:       d.Value,
		Probability: d.Probability,
		Stage:       string(d.Stage),
		StageLabel:  d.Stage.Label(),
		Progress:    d.Stage.Progress(),
		CloseDate:   d.CloseDate.Format(time.DateOnly),
		Owner:       query.OwnerName(st, d.AssignedUserID),
		Notes:       d.Notes,
		CreatedDate: timestamp(d.CreatedDate),
	}
}

func activityToOutput(st store.State, a models.Activity) ActivityOutput {
	out := ActivityOutput{
		ID:           a.ID,
		Type:         string(a.Type),
		Subject:      a.Subject,
		Description:  a.Description,
		ContactID:    a.ContactID,
		DealID:       a.DealID,
		User:         query.ActivityUserName(st, a.UserID),
		Date:         timestamp(a.Date),
		Duration:     a.Duration,
		Outcome:      string(a.Outcome),
		NextSteps:    a.NextSteps,
		FollowUpDate: optionalTimestamp(a.FollowUpDate),
	}
	if a.ContactID != "" {
		out.ContactName = query.ContactName(st, a.ContactID)
	}
	if a.DealID != "" {
		out.DealName = query.DealName(st, a.DealID)
	}
	return out
}

func userToOutput(st store.State, u models.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Territory: u.Territory,
		Current:   st.CurrentUser != nil && st.CurrentUser.ID == u.ID,
	}
}

func timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func optionalTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timestamp(*t)
}

// parseTime accepts RFC 3339 or a bare date.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func mapSlice[T, O any](items []T, fn func(T) O) []O {
	out := make([]O, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}

func take[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// DealsToOutput converts deals for callers outside the MCP server.
func DealsToOutput(st store.State, deals []models.Deal) []DealOutput {
	return mapSlice(deals, func(d models.Deal) DealOutput { return dealToOutput(st, d) })
}
