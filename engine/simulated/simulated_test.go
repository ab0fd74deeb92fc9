package simulated

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const laptopProfile = `
adapters:
  - identity:
      description: Test Laptop GPU
      vendor: Test
      vendor_id: 4098
      device_id: 29663
      driver_version: "23.11.1"
    desktop: {width: 1920, height: 1200, format: XRGB8, refresh_rate: 60}
    modes:
      - {width: 1280, height: 800, format: XRGB8, refresh_rate: 60}
      - {width: 1920, height: 1200, format: XRGB8, refresh_rate: 60}
    devices:
      - kind: hardware
        caps: [hwtl, interval-one]
        surfaces:
          - {adapter_format: XRGB8, back_buffer_format: XRGB8, windowed: true, fullscreen: true}
        depth_stencil: [D24S8, D32]
        incompatible_depth_stencil:
          - {back_buffer_format: XRGB8, depth_stencil: D32}
        multisample:
          - {type: none, qualities: 1}
          - {type: 2x, qualities: 2}
          - {type: 8, qualities: 1}
        conflicts:
          - {depth_stencil: D24S8, multisample: 8x}
`

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile([]byte(laptopProfile))
	require.NoError(t, err)
	require.Len(t, profile.Adapters, 1)

	a := profile.Adapters[0]
	assert.Equal(t, "Test Laptop GPU", a.Identity.Description)
	assert.Equal(t, caps.DisplayMode{Width: 1920, Height: 1200, Format: caps.FormatXRGB8, RefreshRate: 60}, a.Desktop)
	require.Len(t, a.Devices, 1)

	d := a.Devices[0]
	assert.Equal(t, caps.DeviceKindHardware, d.Kind)
	assert.Equal(t, []caps.SurfaceFormat{caps.FormatD24S8, caps.FormatD32}, d.DepthStencil)
	assert.Equal(t, []MultisampleProfile{
		{Type: caps.MultisampleNone, Qualities: 1},
		{Type: caps.Multisample2x, Qualities: 2},
		{Type: caps.Multisample8x, Qualities: 1},
	}, d.Multisample)
	assert.Equal(t, []ConflictProfile{{DepthStencilFormat: caps.FormatD24S8, Multisample: caps.Multisample8x}}, d.Conflicts)
}

func TestParseProfile_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":      "adapters: []\ngpus: 2\n",
		"unknown format":     "adapters:\n  - desktop: {width: 1, height: 1, format: RGBA16F}\n",
		"unknown capability": "adapters:\n  - devices:\n      - {kind: hardware, caps: [raytracing]}\n",
		"duplicate device":   "adapters:\n  - devices:\n      - {kind: software}\n      - {kind: software}\n",
		"unknown kind":       "adapters:\n  - devices:\n      - {kind: quantum}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProfile([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfile_RoundTrip(t *testing.T) {
	data, err := Workstation().Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "workstation.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, Workstation(), loaded)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestProvider_Queries(t *testing.T) {
	profile, err := ParseProfile([]byte(laptopProfile))
	require.NoError(t, err)
	p := MustNew(profile)

	count, err := p.AdapterCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = p.AdapterIdentity(3)
	assert.Error(t, err)

	bits, err := p.DeviceCapabilities(0, caps.DeviceKindHardware)
	require.NoError(t, err)
	assert.True(t, bits.Has(caps.CapHardwareTransformLighting|caps.CapPresentIntervalOne))

	_, err = p.DeviceCapabilities(0, caps.DeviceKindReference)
	assert.ErrorIs(t, err, caps.ErrDeviceKindUnavailable)

	modes, err := p.EnumerateDisplayModes(0, caps.FormatXRGB8)
	require.NoError(t, err)
	assert.Len(t, modes, 2)
	modes, err = p.EnumerateDisplayModes(0, caps.FormatRGB565)
	require.NoError(t, err)
	assert.Empty(t, modes)

	assert.True(t, p.IsTypeSupported(0, caps.DeviceKindHardware, caps.FormatXRGB8, caps.FormatXRGB8, true))
	assert.False(t, p.IsTypeSupported(0, caps.DeviceKindHardware, caps.FormatXRGB8, caps.FormatARGB8, false))
	assert.False(t, p.IsTypeSupported(0, caps.DeviceKindSoftware, caps.FormatXRGB8, caps.FormatXRGB8, true))

	assert.True(t, p.IsFormatUsable(0, caps.DeviceKindHardware, caps.FormatXRGB8, caps.UsageDepthStencil, caps.ResourceSurface, caps.FormatD32))
	assert.False(t, p.IsFormatUsable(0, caps.DeviceKindHardware, caps.FormatXRGB8, caps.UsageDepthStencil, caps.ResourceTexture, caps.FormatD32))
	assert.True(t, p.IsFormatUsable(0, caps.DeviceKindHardware, caps.FormatXRGB8, caps.UsageRenderTarget, caps.ResourceSurface, caps.FormatXRGB8))

	assert.True(t, p.IsDepthStencilCompatible(0, caps.DeviceKindHardware, caps.FormatXRGB8, caps.FormatXRGB8, caps.FormatD24S8))
	assert.False(t, p.IsDepthStencilCompatible(0, caps.DeviceKindHardware, caps.FormatXRGB8, caps.FormatXRGB8, caps.FormatD32))

	levels, ok := p.MultisampleQualityLevels(0, caps.DeviceKindHardware, caps.FormatXRGB8, true, caps.Multisample2x)
	assert.True(t, ok)
	assert.Equal(t, 2, levels)
	_, ok = p.MultisampleQualityLevels(0, caps.DeviceKindHardware, caps.FormatXRGB8, true, caps.Multisample4x)
	assert.False(t, ok)
	_, ok = p.MultisampleQualityLevels(0, caps.DeviceKindHardware, caps.FormatD24S8, true, caps.Multisample8x)
	assert.False(t, ok, "conflicting pair")
	_, ok = p.MultisampleQualityLevels(0, caps.DeviceKindHardware, caps.FormatD32, true, caps.Multisample8x)
	assert.True(t, ok)

	assert.Positive(t, p.Queries())
}

func TestProvider_Unavailable(t *testing.T) {
	p := MustNew(Profile{Unavailable: true})
	_, err := p.AdapterCount()
	assert.ErrorIs(t, err, caps.ErrNoGraphicsProvider)
}

func TestProvider_ConcurrentReads(t *testing.T) {
	p := MustNew(DualAdapter())

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(ordinal int) {
			defer wg.Done()
			for range 100 {
				p.IsTypeSupported(ordinal, caps.DeviceKindHardware, caps.FormatXRGB8, caps.FormatXRGB8, false)
			}
		}(i % 2)
	}
	wg.Wait()
	assert.Equal(t, int64(800), p.Queries())
}

func TestPreset(t *testing.T) {
	assert.Equal(t, []string{"dual-adapter", "reference-only", "software-only", "workstation"}, PresetNames())
	for _, name := range PresetNames() {
		profile, err := Preset(name)
		require.NoError(t, err)
		assert.NoError(t, profile.Validate())
	}

	_, err := Preset("mainframe")
	assert.Error(t, err)

	// presets are fresh copies
	a, _ := Preset("workstation")
	a.Adapters[0].Identity.Description = "changed"
	b, _ := Preset("WORKSTATION")
	assert.Equal(t, "Simulated Workstation GPU", b.Adapters[0].Identity.Description)
}

func TestLoadProfile_ExampleProfile(t *testing.T) {
	profile, err := LoadProfile(filepath.Join("..", "..", "examples", "profiles", "laptop.yaml"))
	require.NoError(t, err)
	require.Len(t, profile.Adapters, 1)
	assert.Len(t, profile.Adapters[0].Devices, 2)

	p := MustNew(profile)
	levels, ok := p.MultisampleQualityLevels(0, caps.DeviceKindHardware, caps.FormatD24S8, false, caps.Multisample4x)
	assert.True(t, ok)
	assert.Equal(t, 2, levels)
	_, ok = p.MultisampleQualityLevels(0, caps.DeviceKindHardware, caps.FormatD32FS8, false, caps.Multisample8x)
	assert.False(t, ok)
}
