package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedKeysAreUnique(t *testing.T) {
	p := Partial()

	checkUnique := func(kind string, ids []string) {
		seen := map[string]bool{}
		for _, id := range ids {
			assert.False(t, seen[id], "duplicate %s id %s", kind, id)
			seen[id] = true
		}
	}

	var ids []string
	for _, u := range *p.Users {
		ids = append(ids, u.ID)
	}
	checkUnique("user", ids)

	ids = nil
	for _, c := range *p.Companies {
		ids = append(ids, c.ID)
	}
	checkUnique("company", ids)

	ids = nil
	for _, d := range *p.Deals {
		ids = append(ids, d.ID)
	}
	checkUnique("deal", ids)
}

func TestSeedValuesAreValid(t *testing.T) {
	for _, c := range Companies() {
		assert.True(t, c.Type.Valid(), c.ID)
		assert.True(t, c.IndustrySegment.Valid(), c.ID)
		assert.True(t, c.Size.Valid(), c.ID)
		assert.True(t, c.RelationshipStatus.Valid(), c.ID)
	}
	for _, d := range Deals() {
		assert.True(t, d.Stage.Valid(), d.ID)
		assert.True(t, d.ProjectType.Valid(), d.ID)
		assert.GreaterOrEqual(t, d.Probability, 0)
		assert.LessOrEqual(t, d.Probability, 100)
	}
	for _, a := range Activities() {
		assert.True(t, a.Type.Valid(), a.ID)
	}
}

func TestSeedCurrentUserIsFirstUser(t *testing.T) {
	p := Partial()
	require.NotNil(t, p.CurrentUser)
	assert.Equal(t, (*p.Users)[0].ID, p.CurrentUser.ID)
}

func TestSeedReturnsFreshSlices(t *testing.T) {
	a := Deals()
	a[0].Name = "mutated"
	assert.NotEqual(t, "mutated", Deals()[0].Name)
}
