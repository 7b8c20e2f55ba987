package dice_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/diceroller/internal/dice"
)

// fixedSource always returns v.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestSample_SeesEveryFace(t *testing.T) {
	d := dice.MustParse("1d6")
	src := dice.NewSeededSource(42)
	seen := map[float64]bool{}
	for i := 0; i < 1000; i++ {
		v, err := d.Sample(src)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 1.0)
		assert.LessOrEqual(t, v, 6.0)
		seen[v] = true
	}
	assert.Len(t, seen, 6)
}

func TestSample_ComplexExpression(t *testing.T) {
	d := dice.MustParse("1d4+2")
	src := dice.NewSeededSource(7)
	seen := map[float64]bool{}
	for i := 0; i < 500; i++ {
		v, err := d.Sample(src)
		require.NoError(t, err)
		seen[v] = true
	}
	assert.Equal(t, map[float64]bool{3: true, 4: true, 5: true, 6: true}, seen)
}

func TestSample_Constant(t *testing.T) {
	for _, expr := range []string{"-2", "0"} {
		d := dice.MustParse(expr)
		want := d.Outcomes()[0]
		for i := 0; i < 5; i++ {
			v, err := d.Roll()
			require.NoError(t, err)
			assert.Equal(t, want, v)
		}
	}
}

func TestSample_CumulativeBoundaries(t *testing.T) {
	d := dice.FromEvents(
		dice.Event{Outcome: 2, Weight: 0.2},
		dice.Event{Outcome: 4, Weight: 0.3},
		dice.Event{Outcome: 7, Weight: 0.5},
	)
	cases := []struct {
		r    float64
		want float64
	}{
		{0, 2},
		{0.1, 2},
		{0.25, 4},
		{0.6, 7},
		{0.9999999999999999, 7},
	}
	for _, tc := range cases {
		v, err := d.Sample(fixedSource(tc.r))
		require.NoError(t, err)
		assert.Equal(t, tc.want, v, "r=%v", tc.r)
	}
}

func TestSample_SkipsZeroWeight(t *testing.T) {
	d := dice.FromEvents(
		dice.Event{Outcome: 1, Weight: 0},
		dice.Event{Outcome: 2, Weight: 1},
		dice.Event{Outcome: 3, Weight: 0},
	)
	for _, r := range []float64{0, 0.5, 0.9999999999999999} {
		v, err := d.Sample(fixedSource(r))
		require.NoError(t, err)
		assert.Equal(t, 2.0, v)
	}
}

func TestSeededSource_Reproducible(t *testing.T) {
	a, b := dice.NewSeededSource(99), dice.NewSeededSource(99)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSource_ConcurrentUse(t *testing.T) {
	src := dice.NewSeededSource(1)
	d := dice.MustParse("2d6")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := d.Sample(src)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestProperty_SampleReturnsPresentOutcome(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := genDistribution().Draw(rt, "d")
		seed := rapid.Uint64().Draw(rt, "seed")
		v, err := d.Sample(dice.NewSeededSource(seed))
		require.NoError(rt, err)
		_, ok := d.Weight(v)
		assert.True(rt, ok, "sampled outcome %v not in %s", v, d)
	})
}

func TestRoller_LogsEachSample(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(3), zap.New(core))

	out, err := roller.SampleN("attack", dice.MustParse("d20"), 5)
	require.NoError(t, err)
	assert.Len(t, out, 5)
	require.Equal(t, 5, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, "dice sample", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "attack", fields["label"])
	assert.Equal(t, 20.0, fields["space_size"])
}

func TestRoller_SampleExpr(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(3), zap.New(core))

	v, err := roller.SampleExpr("2d6+3")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 5.0)
	assert.LessOrEqual(t, v, 15.0)
	assert.Equal(t, "2d6+3", logs.All()[0].ContextMap()["label"])
}

func TestRoller_SampleExpr_ParseError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(3), zap.New(core))

	_, err := roller.SampleExpr("d0")
	assert.ErrorIs(t, err, dice.ErrInvalidExpression)
	assert.Equal(t, 0, logs.Len())
}

func TestRoller_ZeroSpace(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewSeededSource(3), zap.NewNop())
	_, err := roller.SampleN("empty", dice.New(), 2)
	assert.ErrorIs(t, err, dice.ErrZeroSpace)
}

func TestSample_NegativeTotal(t *testing.T) {
	d := dice.FromEvents(
		dice.Event{Outcome: 1, Weight: -1},
		dice.Event{Outcome: 2, Weight: -2},
	)
	_, err := d.Sample(dice.NewSeededSource(1))
	assert.ErrorIs(t, err, dice.ErrNegativeSpace)
	assert.NotErrorIs(t, err, dice.ErrZeroSpace)
}

func TestSample_CancellingWeightsAreZeroSpace(t *testing.T) {
	d := dice.FromEvents(
		dice.Event{Outcome: 1, Weight: 1},
		dice.Event{Outcome: 2, Weight: -1},
	)
	_, err := d.Sample(dice.NewSeededSource(1))
	assert.ErrorIs(t, err, dice.ErrZeroSpace)
}
