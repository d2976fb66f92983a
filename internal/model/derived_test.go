package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegradationAtYear(t *testing.T) {
	// firstyear 2%, annual 0.45%, LID 0.5%
	cases := []struct {
		year int
		want float64
	}{
		{1, 0.0125},
		{2, 0.02225},
		{3, 0.02675},
		{5, 0.03575},
		{25, 0.12575},
	}
	for _, c := range cases {
		got := DegradationAtYear(0.02, 0.0045, 0.005, c.year)
		assert.InDelta(t, c.want, got, 1e-12, "year %d", c.year)
	}
}

func TestStackLosses(t *testing.T) {
	assert.Equal(t, 0.0, StackLosses())
	assert.InDelta(t, 0.02, StackLosses(0.02), 1e-12)
	// two independent 10% losses keep 81%
	assert.InDelta(t, 0.19, StackLosses(0.1, 0.1), 1e-12)
	assert.InDelta(t, 0.0785, StackLosses(0.05, 0.03), 1e-12)
}

func TestCombineSoiling(t *testing.T) {
	assert.InDelta(t, 0.02, CombineSoiling(0.02, 0), 1e-12)
	assert.InDelta(t, 0.0298, CombineSoiling(0.02, 0.01), 1e-12)
	assert.InDelta(t, 0.03, CombineSoiling(0.03, 0), 1e-12)
}

func TestDerive_Tracker(t *testing.T) {
	in, err := Derive(DefaultProfile(RackingTracker), 130e6, 100e6, VoltageHigh, 1)
	require.NoError(t, err)

	assert.Equal(t, RackingTracker, in.Racking)
	assert.Equal(t, VoltageHigh, in.Voltage)
	assert.Equal(t, 130e6, in.DCCapacity)
	assert.Equal(t, 100e6, in.ACCapacity)
	assert.Equal(t, 100e6, in.POICapacity, "POI defaults to the AC rating")

	mount, ok := in.Mount.(TrackerMount)
	require.True(t, ok, "tracker profiles build a tracker mount")
	assert.Equal(t, 60.0, mount.MaxAngle)
	assert.Equal(t, 180.0, mount.AxisAzimuth)
	assert.True(t, mount.Backtrack)

	// 4 m collector stowed at 60 deg, plus half a meter of clearance
	assert.InDelta(t, 1.5, in.AxisHeight, 1e-12)
	assert.InDelta(t, 0.33, in.GCR, 1e-12)

	assert.InDelta(t, 0.02, in.SoilingLoss, 1e-12)
	assert.InDelta(t, 0.0125, in.DegradationLoss, 1e-12)
	assert.InDelta(t, 0.051508225, in.DCLosses, 1e-12)
	assert.InDelta(t, 0.0785, in.BifacialLosses, 1e-12)
	assert.InDelta(t, 0.02, in.PlantLosses, 1e-12)

	assert.Equal(t, 130e6, in.Module.PDC0)
	assert.InDelta(t, -0.0035, in.Module.GammaPDC, 1e-12)
	assert.InDelta(t, 0.20, in.Module.Efficiency, 1e-12)
	assert.InDelta(t, 0.7, in.Module.Bifaciality, 1e-12)
	assert.InDelta(t, -3.56, in.Temperature.A, 1e-12)
	assert.InDelta(t, -0.075, in.Temperature.B, 1e-12)

	// transformer losses scale off the POI rating
	assert.InDelta(t, 1.0e6, in.PMTPeakLoss, 1e-6)
	assert.InDelta(t, 1.0e5, in.PMTConstantLoss, 1e-6)
	assert.Equal(t, 100e6, in.PMTRating)
	assert.InDelta(t, 0.8e6, in.MPTPeakLoss, 1e-6)
	assert.InDelta(t, 0.5e5, in.MPTConstantLoss, 1e-6)
	assert.InDelta(t, 0.02, in.TransmissionLoss, 1e-12)

	// the derived entries land in the parameter union
	assert.InDelta(t, 1.5, in.Params.Float("axis_height"), 1e-12)
	assert.InDelta(t, 0.051508225, in.Params.Float("dc_losses"), 1e-12)
	assert.Equal(t, "tracker", in.Params.String("racking"))
}

func TestDerive_GroundMountGeometry(t *testing.T) {
	in, err := Derive(DefaultProfile(RackingGroundMount), 10e6, 8e6, VoltageHigh, 1)
	require.NoError(t, err)

	mount, ok := in.Mount.(FixedMount)
	require.True(t, ok)
	assert.Equal(t, 30.0, mount.SurfaceTilt)
	assert.Equal(t, 180.0, mount.SurfaceAzimuth)
	assert.InDelta(t, 2.2320508075688776, in.AxisHeight, 1e-12)
	// ground mounts carry a snow term on top of soiling
	assert.InDelta(t, 0.0298, in.SoilingLoss, 1e-12)
}

func TestDerive_CanopyAxisHeight(t *testing.T) {
	in, err := Derive(DefaultProfile(RackingCanopy), 2e6, 1.6e6, VoltageLow, 1)
	require.NoError(t, err)
	// canopies clear parked vehicles regardless of collector size
	assert.Equal(t, 4.0, in.AxisHeight)
	assert.True(t, in.AlbedoOverride)
}

func TestDerive_RooftopZeroesBifaciality(t *testing.T) {
	in, err := Derive(DefaultProfile(RackingRooftop), 1e6, 0.8e6, VoltageLow, 1)
	require.NoError(t, err)

	assert.Equal(t, 0.0, in.Module.Bifaciality)
	assert.InDelta(t, 1.034807753012208, in.AxisHeight, 1e-12)
	assert.InDelta(t, 0.03, in.SoilingLoss, 1e-12)
	assert.Equal(t, 0.0, in.Params.Float("bifaciality"), "union reflects the zeroed value")
}

func TestDerive_VoltageTiers(t *testing.T) {
	profile := DefaultProfile(RackingTracker)

	low, err := Derive(profile, 5e6, 4e6, VoltageLow, 1)
	require.NoError(t, err)
	assert.Zero(t, low.PMTPeakLoss)
	assert.Zero(t, low.PMTConstantLoss)
	assert.Zero(t, low.MPTPeakLoss)
	assert.Zero(t, low.MPTConstantLoss)
	assert.Zero(t, low.TransmissionLoss)

	med, err := Derive(profile, 5e6, 4e6, VoltageMedium, 1)
	require.NoError(t, err)
	assert.NotZero(t, med.PMTPeakLoss, "medium voltage keeps the plant transformer")
	assert.Zero(t, med.MPTPeakLoss)
	assert.Zero(t, med.MPTConstantLoss)
	assert.Zero(t, med.TransmissionLoss)

	high, err := Derive(profile, 5e6, 4e6, VoltageHigh, 1)
	require.NoError(t, err)
	assert.NotZero(t, high.MPTPeakLoss)
	assert.InDelta(t, 0.02, high.TransmissionLoss, 1e-12)
}

func TestDerive_DefaultVoltageIsHigh(t *testing.T) {
	in, err := Derive(DefaultProfile(RackingTracker), 5e6, 4e6, "", 1)
	require.NoError(t, err)
	assert.Equal(t, VoltageHigh, in.Voltage)
	assert.NotZero(t, in.TransmissionLoss)
}

func TestDerive_POICapacityOverride(t *testing.T) {
	profile := DefaultProfile(RackingTracker).Merge(Params{"poi_capacity": 80e6})
	in, err := Derive(profile, 130e6, 100e6, VoltageHigh, 1)
	require.NoError(t, err)

	assert.Equal(t, 80e6, in.POICapacity)
	assert.InDelta(t, 0.8e6, in.PMTPeakLoss, 1e-6, "transformer losses follow the POI limit")
	assert.Equal(t, 80e6, in.PMTRating)
}

func TestDerive_Rejections(t *testing.T) {
	_, err := Derive(Params{"racking": "carport"}, 1e6, 1e6, VoltageHigh, 1)
	assert.ErrorContains(t, err, "unknown racking")

	_, err = Derive(DefaultProfile(RackingTracker), 1e6, 1e6, VoltageHigh, 0)
	assert.ErrorContains(t, err, "degradation year")

	_, err = Derive(DefaultProfile(RackingTracker), 1e6, 1e6, Voltage("hv"), 1)
	assert.ErrorContains(t, err, "unknown interconnection voltage")
}

func TestDerive_DoesNotMutateProfile(t *testing.T) {
	profile := DefaultProfile(RackingTracker)
	before := profile.Clone()

	_, err := Derive(profile, 1e6, 1e6, VoltageHigh, 3)
	require.NoError(t, err)

	assert.Equal(t, len(before), len(profile))
	for k := range before {
		assert.Equal(t, before[k], profile[k], "key %s", k)
	}
	assert.False(t, profile.Has("dc_losses"), "derived entries live on the copy only")
}

func TestDerive_LaterYearRaisesDCLosses(t *testing.T) {
	profile := DefaultProfile(RackingTracker)

	y1, err := Derive(profile, 1e6, 1e6, VoltageHigh, 1)
	require.NoError(t, err)
	y5, err := Derive(profile, 1e6, 1e6, VoltageHigh, 5)
	require.NoError(t, err)

	assert.InDelta(t, 0.0738398035, y5.DCLosses, 1e-9)
	assert.Greater(t, y5.DCLosses, y1.DCLosses)
	assert.Equal(t, y1.SoilingLoss, y5.SoilingLoss, "soiling does not age")
}
