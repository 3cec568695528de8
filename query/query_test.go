// ABOUTME: Tests for list filters, name resolution, aggregates and expression filters
// ABOUTME: Includes the pipeline progression and dangling reference scenarios
package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/seed"
	"github.com/harperreed/energycrm/store"
)

func seededState() store.State {
	return store.Apply(store.State{}, store.LoadData{Data: seed.Partial()})
}

func ids[T interface{ RecordID() string }](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.RecordID()
	}
	return out
}

func TestContactsSearchIsCaseInsensitive(t *testing.T) {
	contacts := []models.Contact{
		{ID: "1", Name: "Ada Lovelace", Email: "ada@grid.example", Title: "CTO", Status: models.ContactActive},
		{ID: "2", Name: "Bob", Email: "BOB@SOLAR.example", Title: "Buyer", Status: models.ContactInactive},
		{ID: "3", Name: "Cy", Email: "cy@wind.example", Title: "Procurement Lead", Status: models.ContactActive},
	}

	assert.Equal(t, []string{"2"}, ids(Contacts(contacts, ContactFilter{Search: "solar"})))
	assert.Equal(t, []string{"3"}, ids(Contacts(contacts, ContactFilter{Search: "PROCUREMENT"})))
	assert.Equal(t, []string{"1", "3"}, ids(Contacts(contacts, ContactFilter{Status: string(models.ContactActive)})))
	assert.Equal(t, []string{"1", "2", "3"}, ids(Contacts(contacts, ContactFilter{Status: All})))
	assert.Empty(t, Contacts(contacts, ContactFilter{Search: "nobody"}))
}

func TestCompaniesSortByRevenue(t *testing.T) {
	big, small := 9e9, 1e6
	companies := []models.Company{
		{ID: "none", Name: "No Revenue Ltd"},
		{ID: "small", Name: "Small Solar", Revenue: &small, Type: models.CompanyDeveloper},
		{ID: "big", Name: "Big Utility", Revenue: &big, Type: models.CompanyUtility, RelationshipStatus: models.RelationshipActive},
	}

	assert.Equal(t, []string{"big", "small", "none"}, ids(Companies(companies, CompanyFilter{})))
	assert.Equal(t, []string{"small"}, ids(Companies(companies, CompanyFilter{Type: string(models.CompanyDeveloper)})))
	assert.Equal(t, []string{"big"}, ids(Companies(companies, CompanyFilter{Status: string(models.RelationshipActive)})))
	assert.Equal(t, "none", companies[0].ID, "input order untouched")
}

func TestDealsSortByValue(t *testing.T) {
	deals := []models.Deal{
		{ID: "a", Name: "Alpha Solar", Value: 10, Stage: models.StageLead, ProjectType: models.ProjectSolarUtility},
		{ID: "b", Name: "Beta Wind", Value: 30, Stage: models.StageProposal, ProjectType: models.ProjectWindOffshore},
		{ID: "c", Name: "Gamma Solar", Value: 20, Stage: models.StageLead, ProjectType: models.ProjectSolarUtility},
	}

	assert.Equal(t, []string{"b", "c", "a"}, ids(Deals(deals, DealFilter{})))
	assert.Equal(t, []string{"c", "a"}, ids(Deals(deals, DealFilter{Search: "solar"})))
	assert.Equal(t, []string{"b"}, ids(Deals(deals, DealFilter{ProjectType: string(models.ProjectWindOffshore)})))
}

func TestActivitiesSortNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC) }
	activities := []models.Activity{
		{ID: "old", Subject: "Intro call", Date: day(1), Type: models.ActivityPhoneCall, Outcome: models.OutcomePositive},
		{ID: "new", Subject: "Site visit", Description: "Walked the substation", Date: day(20), Type: models.ActivitySiteVisit},
		{ID: "mid", Subject: "Follow up", Date: day(10), Type: models.ActivityEmail, Outcome: models.OutcomeNeutral},
	}

	assert.Equal(t, []string{"new", "mid", "old"}, ids(Activities(activities, ActivityFilter{})))
	assert.Equal(t, []string{"new"}, ids(Activities(activities, ActivityFilter{Search: "substation"})))
	assert.Equal(t, []string{"old"}, ids(Activities(activities, ActivityFilter{Outcome: string(models.OutcomePositive)})))
}

func TestDealProgressesFromLeadToClosedWon(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	deal := models.Deal{ID: "x", Name: "Desert Sun", Stage: models.StageLead, Value: 1000}
	require.NoError(t, s.Dispatch(ctx, store.AddDeal{Deal: deal}))

	deal.Stage = models.StageClosedWon
	require.NoError(t, s.Dispatch(ctx, store.UpdateDeal{Deal: deal}))

	st := s.State()
	assert.Empty(t, Deals(st.Deals, DealFilter{Stage: string(models.StageLead)}))
	won := Deals(st.Deals, DealFilter{Stage: string(models.StageClosedWon)})
	require.Len(t, won, 1)
	assert.Equal(t, "x", won[0].ID)
}

func TestDeletedCompanyLeavesPlaceholder(t *testing.T) {
	ctx := context.Background()
	s := store.New()
	require.NoError(t, s.Dispatch(ctx, store.AddCompany{Company: models.Company{ID: "c", Name: "Gone Corp"}}))
	require.NoError(t, s.Dispatch(ctx, store.AddContact{Contact: models.Contact{ID: "p", Name: "Pat", CompanyID: "c", AssignedUserID: "missing"}}))
	require.NoError(t, s.Dispatch(ctx, store.DeleteCompany{ID: "c"}))

	st := s.State()
	contact, ok := st.FindContact("p")
	require.True(t, ok, "contacts are not cascaded")
	assert.Equal(t, UnknownCompany, CompanyName(st, contact.CompanyID))
	assert.Equal(t, Unassigned, OwnerName(st, contact.AssignedUserID))
}

func TestNamePlaceholders(t *testing.T) {
	st := seededState()

	assert.Equal(t, UnknownContact, ContactName(st, "nope"))
	assert.Equal(t, UnknownDeal, DealName(st, ""))
	assert.Equal(t, UnknownUser, ActivityUserName(st, "nope"))
	assert.Equal(t, Unassigned, OwnerName(st, ""))

	assert.Equal(t, st.Users[0].Name, ActivityUserName(st, st.Users[0].ID))
	assert.Equal(t, st.Companies[0].Name, CompanyName(st, st.Companies[0].ID))
}

func TestDealStats(t *testing.T) {
	deals := []models.Deal{
		{Stage: models.StageLead, Value: 100},
		{Stage: models.StageClosedWon, Value: 300},
		{Stage: models.StageClosedLost, Value: 200},
		{Stage: models.StageNegotiation, Value: 400},
	}

	st := ComputeDealStats(deals)
	assert.Equal(t, 4, st.Count)
	assert.Equal(t, 1000.0, st.PipelineValue)
	assert.Equal(t, 250.0, st.AverageValue)
	assert.Equal(t, 2, st.OpenCount)
	assert.Equal(t, 25.0, st.WinRate)

	empty := ComputeDealStats(nil)
	assert.Zero(t, empty.WinRate)
	assert.Zero(t, empty.AverageValue)
}

func TestCompanyStatsAndRelations(t *testing.T) {
	st := seededState()
	cs := ComputeCompanyStats(st.Companies)
	assert.Equal(t, len(st.Companies), cs.Count)
	assert.Positive(t, cs.TotalRevenue)
	assert.InDelta(t, cs.TotalRevenue/float64(cs.Count), cs.AverageRevenue, 0.001)

	id := st.Deals[0].CompanyID
	var want float64
	for _, d := range st.Deals {
		if d.CompanyID == id {
			want += d.Value
		}
	}
	assert.Equal(t, want, CompanyDealValue(st, id))
	for _, c := range CompanyContacts(st, id) {
		assert.Equal(t, id, c.CompanyID)
	}
	assert.Equal(t, len(st.Contacts)+len(st.Companies)+len(st.Deals)+len(st.Activities), TotalRecords(st))
}

func TestExprSelect(t *testing.T) {
	deals := []models.Deal{
		{ID: "a", Stage: models.StageLead, Value: 900000, Probability: 10},
		{ID: "b", Stage: models.StageLead, Value: 100000, Probability: 20},
		{ID: "c", Stage: models.StageProposal, Value: 5000000, Probability: 60},
	}

	e, err := Compile(`stage == "lead" && value > 500000`)
	require.NoError(t, err)
	got, err := Select(e, deals)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))

	e, err = Compile(`probability >= 20`)
	require.NoError(t, err)
	got, err = Select(e, deals)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(got))

	all, err := Select[models.Deal](nil, deals)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestExprUsesJSONFieldNames(t *testing.T) {
	contacts := []models.Contact{
		{ID: "1", CompanyID: "c1"},
		{ID: "2", CompanyID: "c2"},
	}
	e, err := Compile(`companyId == "c2"`)
	require.NoError(t, err)
	got, err := Select(e, contacts)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestCompileRejectsBadExpressions(t *testing.T) {
	for _, src := range []string{"", "   ", "stage ==", `"not a bool"`} {
		_, err := Compile(src)
		assert.ErrorIs(t, err, ErrInvalidExpression, src)
	}
}
