package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		in   string
		want Condition
		mult float64
	}{
		{"", NearMint, 1.0},
		{"Near Mint", NearMint, 1.0},
		{"lp", LightlyPlayed, 0.8},
		{"PLAYED", Played, 0.6},
		{"Damaged", Damaged, 0.4},
		{"Signed", Condition("Signed"), 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := ParseCondition(tt.in)
			assert.Equal(t, tt.want, c)
			assert.Equal(t, tt.mult, c.Multiplier())
		})
	}
}

func TestItemKey(t *testing.T) {
	assert.Equal(t, "base set|base1-4", ItemKey("Base Set", "Charizard", "Holo Rare", "base1-4"))
	assert.Equal(t, "base set|charizard|holo rare", ItemKey(" Base Set ", "Charizard", "Holo Rare", ""))
}

func TestNewItem(t *testing.T) {
	manual := 12.5
	set := Set{ID: 1, Name: "Jungle", CatalogSetID: "base2"}
	row := Row{ID: 9, SetID: 1, Quantity: 2, Cond: "lp", Name: " Pikachu ", Rarity: "Common", ManualPrice: &manual}

	item := NewItem(set, row)
	assert.Equal(t, "jungle|pikachu|common", item.Key)
	assert.Equal(t, "Pikachu", item.Name)
	assert.Equal(t, LightlyPlayed, item.Condition)
	assert.Equal(t, "base2", item.CatalogSetID)

	v, ok := item.Override()
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)
}

func TestRowPredicates(t *testing.T) {
	assert.False(t, Row{Name: "  "}.HasName())
	assert.True(t, Row{Name: "Mew"}.HasName())
	assert.False(t, Row{Quantity: 0}.Owned())
	assert.True(t, Row{Quantity: 1}.Owned())
}

func TestItem_Total(t *testing.T) {
	item := Item{Quantity: 3, Condition: LightlyPlayed}
	assert.Equal(t, 26.4, item.Total(11.0))
	assert.Equal(t, 0.3, Item{Quantity: 1, Condition: NearMint}.Total(0.1+0.2))

	assert.Zero(t, Item{Quantity: 0, Condition: NearMint}.Total(10))
	assert.Zero(t, item.Total(0))
}

func ptrTime(t time.Time) *time.Time { return &t }
