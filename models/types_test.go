// ABOUTME: Tests for CRM data models
// ABOUTME: Validates stage progression, fixed value sets, key generation and JSON field names
package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageProgress(t *testing.T) {
	cases := map[Stage]int{
		StageLead:           0,
		StageQualification:  20,
		StageNeedsAnalysis:  40,
		StageProposal:       60,
		StageNegotiation:    80,
		StageContractReview: 100,
		StageClosedWon:      100,
		StageClosedLost:     0,
		Stage("bogus"):      0,
	}
	for stage, want := range cases {
		if got := stage.Progress(); got != want {
			t.Errorf("%s: expected progress %d, got %d", stage, want, got)
		}
	}
}

func TestStageIsClosed(t *testing.T) {
	assert.True(t, StageClosedWon.IsClosed())
	assert.True(t, StageClosedLost.IsClosed())
	for _, s := range OpenStages {
		assert.False(t, s.IsClosed(), s)
	}
}

func TestStageLabel(t *testing.T) {
	assert.Equal(t, "needs analysis", StageNeedsAnalysis.Label())
	assert.Equal(t, "closed won", StageClosedWon.Label())
}

func TestFixedSets(t *testing.T) {
	assert.True(t, RoleSalesManager.Valid())
	assert.False(t, Role("ceo").Valid())
	assert.True(t, CompanyEPC.Valid())
	assert.True(t, SegmentOilGas.Valid())
	assert.False(t, IndustrySegment("nuclear").Valid())
	assert.True(t, ContactDoNotContact.Valid())
	assert.True(t, ProjectWindOffshore.Valid())
	assert.True(t, ActivitySiteVisit.Valid())
	assert.False(t, Outcome("meh").Valid())
	assert.Len(t, ProjectTypes, 11)
	assert.Len(t, Stages, 8)
}

func TestClampProbability(t *testing.T) {
	assert.Equal(t, 0, ClampProbability(-5))
	assert.Equal(t, 55, ClampProbability(55))
	assert.Equal(t, 100, ClampProbability(130))
}

func TestNewIDULID(t *testing.T) {
	gen, err := NewIDGenerator(IDSchemeULID)
	require.NoError(t, err)

	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 500; i++ {
		id := gen.NewID()
		_, err := ulid.Parse(id)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		assert.Greater(t, id, prev, "ids should sort by creation")
		seen[id] = true
		prev = id
	}
}

func TestNewIDUUIDv7(t *testing.T) {
	gen, err := NewIDGenerator(IDSchemeUUID)
	require.NoError(t, err)

	parsed, err := uuid.Parse(gen.NewID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNewIDGeneratorRejectsUnknownScheme(t *testing.T) {
	_, err := NewIDGenerator("snowflake")
	assert.Error(t, err)
}

func TestDealJSONFieldNames(t *testing.T) {
	capacity := 150.0
	deal := Deal{
		ID:          "d1",
		Name:        "Mesa Solar Farm",
		CompanyID:   "c1",
		ContactID:   "p1",
		ProjectType: ProjectSolarUtility,
		Capacity:    &capacity,
		Value:       1000000,
		Probability: 40,
		Stage:       StageLead,
		CloseDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedDate: time.Date(2024, 11, 5, 9, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(deal)
	require.NoError(t, err)

	s := string(data)
	for _, field := range []string{`"companyId":"c1"`, `"projectType":"solar_utility"`, `"closeDate":"2025-03-01T00:00:00Z"`, `"capacity":150`} {
		if !strings.Contains(s, field) {
			t.Errorf("expected %s in %s", field, s)
		}
	}
	assert.NotContains(t, s, "lastActivityDate")
}
