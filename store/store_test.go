// ABOUTME: Tests for the state holder
// ABOUTME: Verifies dispatch, not-found signalling and commit observers
package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energycrm/models"
)

func TestDispatchCommitsAndNotifies(t *testing.T) {
	ctx := context.Background()
	s := New()

	var commits []Commit
	s.Subscribe(func(_ context.Context, c Commit) {
		commits = append(commits, c)
	})

	require.NoError(t, s.Dispatch(ctx, AddCompany{Company: testCompany("c1", "Acme Solar")}))
	require.Len(t, commits, 1)
	assert.Equal(t, "add_company", commits[0].Action.Type())
	assert.Empty(t, commits[0].Prev.Companies)
	assert.Len(t, commits[0].Next.Companies, 1)
	assert.Equal(t, commits[0].Next, s.State())
}

func TestDispatchUnmatchedReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Dispatch(ctx, AddDeal{Deal: testDeal("d1", "c1", models.StageLead, 10)}))

	notified := 0
	s.Subscribe(func(context.Context, Commit) { notified++ })

	before := s.State()
	err := s.Dispatch(ctx, UpdateDeal{Deal: testDeal("nope", "c1", models.StageLead, 10)})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.Dispatch(ctx, DeleteDeal{ID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, before, s.State())
	assert.Zero(t, notified)
}

func TestDispatchDeleteTwice(t *testing.T) {
	ctx := context.Background()
	s := New(WithInitialState(State{Contacts: []models.Contact{{ID: "p1"}, {ID: "p2"}}}))

	require.NoError(t, s.Dispatch(ctx, DeleteContact{ID: "p1"}))
	assert.ErrorIs(t, s.Dispatch(ctx, DeleteContact{ID: "p1"}), ErrNotFound)
	assert.Len(t, s.State().Contacts, 1)
}

func TestDispatchNilAction(t *testing.T) {
	assert.Error(t, New().Dispatch(context.Background(), nil))
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	s := New()

	var order []string
	unsubA := s.Subscribe(func(context.Context, Commit) { order = append(order, "a") })
	s.Subscribe(func(context.Context, Commit) { order = append(order, "b") })

	require.NoError(t, s.Dispatch(ctx, SetLoading{Loading: true}))
	unsubA()
	require.NoError(t, s.Dispatch(ctx, SetLoading{Loading: false}))

	assert.Equal(t, []string{"a", "b", "b"}, order)
}

func TestDispatchConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := New()
	ids, err := models.NewIDGenerator(models.IDSchemeULID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Dispatch(ctx, AddActivity{Activity: models.Activity{ID: ids.NewID()}})
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.State().Activities, 50)
}

func TestDispatchHook(t *testing.T) {
	ctx := context.Background()

	type outcome struct {
		action string
		err    error
	}
	var got []outcome
	s := New(WithDispatchHook(func(a Action, err error) {
		got = append(got, outcome{a.Type(), err})
	}))

	require.NoError(t, s.Dispatch(ctx, AddUser{User: models.User{ID: "u1"}}))
	_ = s.Dispatch(ctx, DeleteUser{ID: "u9"})

	require.Len(t, got, 2)
	assert.Equal(t, "add_user", got[0].action)
	assert.NoError(t, got[0].err)
	assert.Equal(t, "delete_user", got[1].action)
	assert.ErrorIs(t, got[1].err, ErrNotFound)
}
