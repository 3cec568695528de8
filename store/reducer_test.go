// ABOUTME: Tests for the pure transition function
// ABOUTME: Covers add/update/delete semantics, immutability and load_data merging
package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energycrm/models"
)

func testCompany(id, name string) models.Company {
	return models.Company{
		ID:                 id,
		Name:               name,
		Type:               models.CompanyDeveloper,
		IndustrySegment:    models.SegmentSolar,
		Location:           models.Location{City: "Phoenix", State: "AZ", Country: "USA"},
		Size:               models.SizeMedium,
		RelationshipStatus: models.RelationshipProspect,
		CreatedDate:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func testDeal(id, companyID string, stage models.Stage, value float64) models.Deal {
	return models.Deal{
		ID:          id,
		Name:        "Deal " + id,
		CompanyID:   companyID,
		ProjectType: models.ProjectSolarUtility,
		Value:       value,
		Probability: 50,
		Stage:       stage,
		CloseDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CreatedDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestApplyAddDistinctKeys(t *testing.T) {
	var s State
	for i := 0; i < 25; i++ {
		s = Apply(s, AddContact{Contact: models.Contact{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Contact %d", i)}})
	}

	require.Len(t, s.Contacts, 25)
	for i := 0; i < 25; i++ {
		c, ok := s.FindContact(fmt.Sprintf("p%d", i))
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("Contact %d", i), c.Name)
	}
}

func TestApplyAddDoesNotCheckUniqueness(t *testing.T) {
	s := Apply(State{}, AddUser{User: models.User{ID: "u1"}})
	s = Apply(s, AddUser{User: models.User{ID: "u1"}})
	assert.Len(t, s.Users, 2)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	base := State{Companies: make([]models.Company, 0, 8)}
	base.Companies = append(base.Companies, testCompany("c1", "Acme Solar"))

	added := Apply(base, AddCompany{Company: testCompany("c2", "Beta Wind")})
	other := Apply(base, AddCompany{Company: testCompany("c3", "Gamma Grid")})

	assert.Len(t, base.Companies, 1)
	assert.Equal(t, "c2", added.Companies[1].ID)
	assert.Equal(t, "c3", other.Companies[1].ID, "spare capacity in the input must not be shared between successors")

	renamed := testCompany("c1", "Acme Solar Holdings")
	updated := Apply(base, UpdateCompany{Company: renamed})
	assert.Equal(t, "Acme Solar", base.Companies[0].Name)
	assert.Equal(t, "Acme Solar Holdings", updated.Companies[0].Name)

	deleted := Apply(base, DeleteCompany{ID: "c1"})
	assert.Empty(t, deleted.Companies)
	assert.Len(t, base.Companies, 1)
}

func TestApplyUpdateReplacesExactlyOne(t *testing.T) {
	var s State
	s = Apply(s, AddDeal{Deal: testDeal("d1", "c1", models.StageLead, 100)})
	s = Apply(s, AddDeal{Deal: testDeal("d2", "c1", models.StageProposal, 200)})
	s = Apply(s, AddDeal{Deal: testDeal("d3", "c1", models.StageNegotiation, 300)})

	changed := testDeal("d2", "c1", models.StageClosedWon, 250)
	next := Apply(s, UpdateDeal{Deal: changed})

	require.Len(t, next.Deals, 3)
	assert.Equal(t, s.Deals[0], next.Deals[0])
	assert.Equal(t, changed, next.Deals[1])
	assert.Equal(t, s.Deals[2], next.Deals[2])
}

func TestApplyUpdateUnmatchedIsNoop(t *testing.T) {
	s := Apply(State{}, AddDeal{Deal: testDeal("d1", "c1", models.StageLead, 100)})

	next, matched := apply(s, UpdateDeal{Deal: testDeal("missing", "c1", models.StageLead, 1)})
	assert.False(t, matched)
	assert.Equal(t, s, next)
}

func TestApplyDeleteIsIdempotent(t *testing.T) {
	var s State
	s = Apply(s, AddActivity{Activity: models.Activity{ID: "a1", Subject: "Intro call"}})
	s = Apply(s, AddActivity{Activity: models.Activity{ID: "a2", Subject: "Site visit"}})

	once := Apply(s, DeleteActivity{ID: "a1"})
	twice, matched := apply(once, DeleteActivity{ID: "a1"})

	assert.Len(t, once.Activities, 1)
	assert.False(t, matched)
	assert.Equal(t, once, twice)
	assert.Equal(t, "a2", twice.Activities[0].ID)
}

func TestApplyFlagsAndCurrentUser(t *testing.T) {
	s := Apply(State{}, SetLoading{Loading: true})
	assert.True(t, s.Loading)

	s = Apply(s, SetError{Message: "storage quota exceeded"})
	assert.Equal(t, "storage quota exceeded", s.Error)
	s = Apply(s, SetError{})
	assert.Empty(t, s.Error)

	u := models.User{ID: "u1", Name: "Dana Reyes", Role: models.RoleSalesRep}
	s = Apply(s, SetCurrentUser{User: u})
	require.NotNil(t, s.CurrentUser)
	assert.Equal(t, "Dana Reyes", s.CurrentUser.Name)

	// the pointer is not shared with the caller's value
	u.Name = "Someone Else"
	assert.Equal(t, "Dana Reyes", s.CurrentUser.Name)
}

func TestApplyLoadDataMergesOnlyProvidedFields(t *testing.T) {
	var s State
	s = Apply(s, AddUser{User: models.User{ID: "u0"}})
	s = Apply(s, AddCompany{Company: testCompany("c1", "Acme Solar")})
	s = Apply(s, AddContact{Contact: models.Contact{ID: "p1"}})
	s = Apply(s, AddDeal{Deal: testDeal("d1", "c1", models.StageLead, 1)})
	s = Apply(s, AddActivity{Activity: models.Activity{ID: "a1"}})

	users := []models.User{{ID: "u1", Name: "Sam Ortiz"}}
	next := Apply(s, LoadData{Data: Partial{Users: &users}})

	require.Len(t, next.Users, 1)
	assert.Equal(t, "u1", next.Users[0].ID)
	assert.Equal(t, s.Companies, next.Companies)
	assert.Equal(t, s.Contacts, next.Contacts)
	assert.Equal(t, s.Deals, next.Deals)
	assert.Equal(t, s.Activities, next.Activities)
	assert.Nil(t, next.CurrentUser)
}

type unknownAction struct{}

func (unknownAction) Type() string { return "unknown" }

func TestApplyUnknownActionReturnsState(t *testing.T) {
	s := Apply(State{}, AddUser{User: models.User{ID: "u1"}})
	assert.Equal(t, s, Apply(s, unknownAction{}))
}

func TestStageFilterScenario(t *testing.T) {
	var s State
	s = Apply(s, AddCompany{Company: testCompany("c1", "Acme Solar")})
	s = Apply(s, AddDeal{Deal: testDeal("d1", "c1", models.StageLead, 1000000)})

	leads := func(st State) []string {
		var ids []string
		for _, d := range st.Deals {
			if d.Stage == models.StageLead {
				ids = append(ids, d.ID)
			}
		}
		return ids
	}
	assert.Equal(t, []string{"d1"}, leads(s))

	won := s.Deals[0]
	won.Stage = models.StageClosedWon
	s = Apply(s, UpdateDeal{Deal: won})
	assert.Empty(t, leads(s))

	// deleting the company leaves the deal in place
	s = Apply(s, DeleteCompany{ID: "c1"})
	require.Len(t, s.Deals, 1)
	_, ok := s.FindCompany(s.Deals[0].CompanyID)
	assert.False(t, ok)
}
