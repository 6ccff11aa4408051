package refresh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(plan []Entry) []string {
	out := make([]string, len(plan))
	for i, e := range plan {
		out[i] = e.Item.Name
	}
	return out
}

func TestBuildPlan_Order(t *testing.T) {
	plan, err := BuildPlan(context.Background(), fixture(), PlanOptions{Reference: t0, FreshnessWindow: DefaultConfig().FreshnessWindow})
	require.NoError(t, err)

	// owned without price, owned stale, unowned without price, unowned stale
	assert.Equal(t, []string{"Charizard", "Scyther", "Venusaur", "Mew", "Ghost", "Blastoise", "Snorlax"}, names(plan))

	assert.Equal(t, Position{Pass: PassOwned, Tier: TierStale, SetIndex: 1, RowIndex: 2}, plan[3].Pos)
	assert.Equal(t, "base|charizard|", plan[0].Item.Key)
}

func TestBuildPlan_OwnedOnly(t *testing.T) {
	plan, err := BuildPlan(context.Background(), fixture(), PlanOptions{Reference: t0, FreshnessWindow: DefaultConfig().FreshnessWindow, OwnedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Charizard", "Scyther", "Venusaur", "Mew", "Ghost"}, names(plan))
}

func TestRemaining(t *testing.T) {
	plan, err := BuildPlan(context.Background(), fixture(), PlanOptions{Reference: t0, FreshnessWindow: DefaultConfig().FreshnessWindow})
	require.NoError(t, err)

	assert.Len(t, remaining(plan, Position{}), 7)
	assert.Equal(t, []string{"Mew", "Ghost", "Blastoise", "Snorlax"}, names(remaining(plan, plan[3].Pos)))
	assert.Empty(t, remaining(plan, Position{Pass: PassUnowned, Tier: TierStale, SetIndex: 99}))
}

func TestPosition_Less(t *testing.T) {
	a := Position{Pass: PassOwned, Tier: TierStale, SetIndex: 0, RowIndex: 0}
	b := Position{Pass: PassUnowned, Tier: TierMissing, SetIndex: 0, RowIndex: 0}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StateIdle, StateOwnedPass))
	assert.True(t, CanTransition(StateOwnedPass, StateUnownedPass))
	assert.True(t, CanTransition(StateUnownedPass, StateCheckpointed))
	assert.True(t, CanTransition(StateCheckpointed, StateUnownedPass))
	assert.True(t, CanTransition(StateUnownedPass, StateComplete))
	assert.False(t, CanTransition(StateUnownedPass, StateOwnedPass))
	assert.False(t, CanTransition(StateIdle, StateCheckpointed))
	assert.ErrorIs(t, checkTransition(StateIdle, StateCheckpointed), ErrInvalidTransition)
}
