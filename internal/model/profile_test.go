package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRacking(t *testing.T) {
	for _, r := range RackingTypes() {
		got, err := ParseRacking(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRacking("carport")
	assert.ErrorContains(t, err, `unknown racking type "carport"`)
	_, err = ParseRacking("")
	assert.Error(t, err, "racking has no default tier")
	_, err = ParseRacking("Tracker")
	assert.Error(t, err, "values are case sensitive")
}

func TestParseVoltage(t *testing.T) {
	v, err := ParseVoltage("medium")
	require.NoError(t, err)
	assert.Equal(t, VoltageMedium, v)

	v, err = ParseVoltage("")
	require.NoError(t, err)
	assert.Equal(t, VoltageHigh, v, "unspecified interconnection reads as high")

	_, err = ParseVoltage("hv")
	assert.ErrorContains(t, err, "unknown interconnection voltage")
}

func TestDefaultProfile_PerTierValues(t *testing.T) {
	tr := DefaultProfile(RackingTracker)
	assert.Equal(t, 60.0, tr.Float("max_angle"))
	assert.True(t, tr.Bool("backtrack"))
	assert.Equal(t, 0.33, tr.Float("gcr"))
	assert.False(t, tr.Has("surface_tilt"))

	gm := DefaultProfile(RackingGroundMount)
	assert.Equal(t, 30.0, gm.Float("surface_tilt"))
	assert.Equal(t, 0.01, gm.Float("snow_loss"))
	assert.False(t, gm.Has("max_angle"))

	ca := DefaultProfile(RackingCanopy)
	assert.Equal(t, 0.95, ca.Float("gcr"))
	assert.Equal(t, 12.0, ca.Float("collector_width"))
	assert.True(t, ca.Bool("albedo_override"))

	rt := DefaultProfile(RackingRooftop)
	assert.Equal(t, 0.03, rt.Float("soiling_loss"))
	assert.Equal(t, 0.12, rt.Float("albedo"))
	temp := rt.Record("temperature_model")
	require.NotNil(t, temp)
	assert.InDelta(t, -2.98, temp["a"], 1e-12)

	// the loss ladder is shared by every tier
	for _, r := range RackingTypes() {
		p := DefaultProfile(r)
		assert.Equal(t, 0.02, p.Float("degradation_firstyear"), "%s", r)
		assert.Equal(t, 0.0045, p.Float("degradation_annual"), "%s", r)
		assert.Equal(t, string(r), p.String("racking"))
	}
}

func TestDefaultProfile_FreshCopyPerCall(t *testing.T) {
	a := DefaultProfile(RackingTracker)
	a["gcr"] = 0.5
	a["extra"] = 1.0

	b := DefaultProfile(RackingTracker)
	assert.Equal(t, 0.33, b.Float("gcr"))
	assert.False(t, b.Has("extra"))
}

func TestDefaultProfile_UnknownTierPanics(t *testing.T) {
	assert.Panics(t, func() { DefaultProfile(RackingType("floating")) })
}

func TestMerge_OverridesReplaceWholeValues(t *testing.T) {
	base := DefaultProfile(RackingTracker)
	merged := base.Merge(Params{
		"gcr":               0.45,
		"temperature_model": map[string]float64{"a": -2.0},
		"custom_flag":       true,
	})

	assert.Equal(t, 0.45, merged.Float("gcr"))
	assert.True(t, merged.Bool("custom_flag"))
	assert.Equal(t, 60.0, merged.Float("max_angle"), "untouched keys pass through")

	// records are swapped whole, not patched
	temp := merged.Record("temperature_model")
	assert.InDelta(t, -2.0, temp["a"], 1e-12)
	_, hasB := temp["b"]
	assert.False(t, hasB, "wind coefficient from the base record is gone")

	// neither input changed
	assert.Equal(t, 0.33, base.Float("gcr"))
	assert.InDelta(t, -0.075, base.Record("temperature_model")["b"], 1e-12)
}

func TestMerge_EmptyOverrides(t *testing.T) {
	base := DefaultProfile(RackingRooftop)
	merged := base.Merge(nil)
	assert.Equal(t, len(base), len(merged))
	merged["soiling_loss"] = 0.5
	assert.Equal(t, 0.03, base.Float("soiling_loss"), "merge returns an independent map")
}

func TestParams_FloatCoercion(t *testing.T) {
	p := Params{"a": 1.5, "b": 2, "c": int64(3), "d": "nope"}
	assert.Equal(t, 1.5, p.Float("a"))
	assert.Equal(t, 2.0, p.Float("b"), "decoded YAML integers coerce")
	assert.Equal(t, 3.0, p.Float("c"))
	assert.Equal(t, 0.0, p.Float("d"))
	assert.Equal(t, 0.0, p.Float("missing"))
}

func TestParams_RecordFromDecodedJSON(t *testing.T) {
	// JSON decoding hands back map[string]any with float64 values
	p := Params{"temperature_model": map[string]any{"a": -3.56, "b": -0.075}}
	rec := p.Record("temperature_model")
	require.NotNil(t, rec)
	assert.InDelta(t, -3.56, rec["a"], 1e-12)
	assert.InDelta(t, -0.075, rec["b"], 1e-12)

	// YAML decoding may hand back integers
	p = Params{"temperature_model": map[string]any{"a": -3, "b": 0}}
	rec = p.Record("temperature_model")
	assert.Equal(t, -3.0, rec["a"])

	assert.Nil(t, Params{}.Record("temperature_model"))
}
