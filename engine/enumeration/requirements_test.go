package enumeration

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirements_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Requirements)
		valid  bool
	}{
		{"defaults", func(*Requirements) {}, true},
		{"negative width", func(r *Requirements) { r.MinFullscreenWidth = -1 }, false},
		{"negative stencil", func(r *Requirements) { r.MinStencilBits = -8 }, false},
		{"windowed and fullscreen", func(r *Requirements) { r.RequireWindowed, r.RequireFullscreen = true, true }, false},
		{"hardware and reference", func(r *Requirements) { r.RequireHardware, r.RequireReference = true, true }, false},
		{"driver constraint", func(r *Requirements) { r.MinDriverVersion = ">= 22.0, < 40" }, true},
		{"bad driver constraint", func(r *Requirements) { r.MinDriverVersion = "twenty" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := DefaultRequirements()
			tc.mutate(&req)
			err := req.Validate()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, caps.ErrInvalidRequirements)
		})
	}
}

func TestRequirements_AllowsDeviceKind(t *testing.T) {
	req := DefaultRequirements()
	for _, kind := range caps.DeviceKinds {
		assert.True(t, req.AllowsDeviceKind(kind))
	}

	req.RequireHardware = true
	assert.True(t, req.AllowsDeviceKind(caps.DeviceKindHardware))
	assert.False(t, req.AllowsDeviceKind(caps.DeviceKindSoftware))

	req = DefaultRequirements()
	req.RequireReference = true
	assert.True(t, req.AllowsDeviceKind(caps.DeviceKindReference))
	assert.False(t, req.AllowsDeviceKind(caps.DeviceKindHardware))
}

func TestDriverSatisfies(t *testing.T) {
	req := Requirements{MinDriverVersion: ">= 22.0.0"}
	constraint, err := req.driverConstraint()
	require.NoError(t, err)

	cases := map[string]bool{
		"31.0.15.5222":   true,
		"22.0":           true,
		"22":             true,
		"NVIDIA 535.129": true,
		"21.99.1":        false,
		"Mesa 3.1-devel": false,
		"":               false,
		"unknown":        false,
	}
	for raw, want := range cases {
		assert.Equal(t, want, driverSatisfies(raw, constraint), raw)
	}

	none, err := Requirements{}.driverConstraint()
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestVertexProcessingFor(t *testing.T) {
	req := DefaultRequirements()

	assert.Equal(t, []caps.VertexProcessing{caps.VertexProcessingSoftware},
		vertexProcessingFor(0, caps.FormatXRGB8, caps.FormatXRGB8, req))

	// pure without hardware T&L grants nothing extra
	assert.Equal(t, []caps.VertexProcessing{caps.VertexProcessingSoftware},
		vertexProcessingFor(caps.CapPureDevice, caps.FormatXRGB8, caps.FormatXRGB8, req))

	req.UsesMixedVertexProcessing = true
	assert.Equal(t, []caps.VertexProcessing{
		caps.VertexProcessingHardware,
		caps.VertexProcessingMixed,
		caps.VertexProcessingSoftware,
	}, vertexProcessingFor(caps.CapHardwareTransformLighting, caps.FormatXRGB8, caps.FormatXRGB8, req))
}

func TestPresentIntervalsFor(t *testing.T) {
	all := caps.CapPresentIntervalOne | caps.CapPresentIntervalTwo | caps.CapPresentIntervalThree | caps.CapPresentIntervalFour

	assert.Equal(t, caps.PresentIntervals, presentIntervalsFor(all, false))
	assert.Equal(t, []caps.PresentInterval{
		caps.PresentIntervalImmediate,
		caps.PresentIntervalDefault,
		caps.PresentIntervalOne,
	}, presentIntervalsFor(all, true))
	assert.Equal(t, []caps.PresentInterval{
		caps.PresentIntervalImmediate,
		caps.PresentIntervalDefault,
	}, presentIntervalsFor(0, false))
}
