package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/diceroller/internal/catalog"
	"github.com/cory-johannsen/diceroller/internal/dice"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"longsword.yaml": `
id: longsword
name: Longsword damage
expression: "1d8+3"
`,
		"coin.yml": `
id: loaded-coin
name: Loaded coin
outcomes:
  - {outcome: 1, weight: 3}
  - {outcome: 0, weight: 1}
`,
		"notes.txt": "ignored",
	})

	c, err := catalog.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"loaded-coin", "longsword"}, c.IDs())

	e, ok := c.Get("longsword")
	require.True(t, ok)
	assert.Equal(t, "Longsword damage", e.Name)

	d, err := c.Distribution("longsword")
	require.NoError(t, err)
	assert.True(t, d.Equal(dice.MustParse("d8+3")))

	coin, err := c.Distribution("loaded-coin")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, coin.Outcomes(), "outcome tables keep file order")
	assert.Equal(t, map[float64]float64{1: 3, 0: 1}, coin.Map())
}

func TestCatalog_UnknownID(t *testing.T) {
	c, err := catalog.LoadDir(t.TempDir())
	require.NoError(t, err)
	_, err = c.Distribution("nope")
	assert.Error(t, err)
}

func TestLoadDir_MissingDir(t *testing.T) {
	_, err := catalog.LoadDir("/nonexistent/rolls")
	assert.Error(t, err)
}

func TestLoadDir_InvalidExpression(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.yaml": "id: bad\nexpression: \"2d0\"\n",
	})
	_, err := catalog.LoadDir(dir)
	assert.ErrorIs(t, err, dice.ErrInvalidExpression)
}

func TestLoadDir_DuplicateID(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.yaml": "id: same\nexpression: d6\n",
		"b.yaml": "id: same\nexpression: d8\n",
	})
	_, err := catalog.LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadDir_MalformedYAML(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"broken.yaml": "id: [unterminated\n",
	})
	_, err := catalog.LoadDir(dir)
	assert.Error(t, err)
}

func TestEntry_Validate(t *testing.T) {
	cases := []struct {
		name  string
		entry catalog.Entry
		ok    bool
	}{
		{"expression", catalog.Entry{ID: "a", Expression: "d6"}, true},
		{"table", catalog.Entry{ID: "a", Outcomes: []dice.Event{{Outcome: 1, Weight: 1}}}, true},
		{"missing id", catalog.Entry{Expression: "d6"}, false},
		{"neither", catalog.Entry{ID: "a"}, false},
		{"both", catalog.Entry{ID: "a", Expression: "d6", Outcomes: []dice.Event{{Outcome: 1, Weight: 1}}}, false},
		{"negative weight", catalog.Entry{ID: "a", Outcomes: []dice.Event{{Outcome: 1, Weight: -1}}}, false},
		{"duplicate outcome", catalog.Entry{ID: "a", Outcomes: []dice.Event{{Outcome: 1, Weight: 1}, {Outcome: 1, Weight: 2}}}, false},
	}
	for _, tc := range cases {
		err := tc.entry.Validate()
		if tc.ok {
			assert.NoError(t, err, tc.name)
		} else {
			assert.Error(t, err, tc.name)
		}
	}
}

func TestEntry_ValidateJoinsViolations(t *testing.T) {
	e := catalog.Entry{Outcomes: []dice.Event{{Outcome: 2, Weight: -1}}}
	err := e.Validate()
	require.Error(t, err)
	assert.Equal(t,
		`catalog entry "" validation failed: id must not be empty; outcomes[0].weight must be >= 0, got -1`,
		err.Error())
	assert.NotContains(t, err.Error(), "[id")
}

func TestProperty_TableEntryMatchesEvents(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		outcomes := rapid.SliceOfNDistinct(rapid.IntRange(-50, 50), 1, 10, rapid.ID[int]).Draw(rt, "outcomes")
		events := make([]dice.Event, len(outcomes))
		for i, o := range outcomes {
			w := rapid.IntRange(0, 100).Draw(rt, "weight")
			events[i] = dice.Event{Outcome: float64(o), Weight: float64(w)}
		}
		e := catalog.Entry{ID: "table", Outcomes: events}
		require.NoError(rt, e.Validate())
		d, err := e.Distribution()
		require.NoError(rt, err)
		assert.Equal(rt, events, d.Events())
	})
}

func TestLoadDir_ShippedContent(t *testing.T) {
	c, err := catalog.LoadDir("../../content/rolls")
	require.NoError(t, err)
	assert.Equal(t, []string{"attack", "damage_greatsword", "loot_quality"}, c.IDs())

	d, err := c.Distribution("loot_quality")
	require.NoError(t, err)
	assert.Equal(t, 100.0, d.SpaceSize())
}
