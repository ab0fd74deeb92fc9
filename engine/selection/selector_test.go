package selection_test

import (
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Carmen-Shannon/oxy-caps/engine/enumeration"
	"github.com/Carmen-Shannon/oxy-caps/engine/profiler"
	"github.com/Carmen-Shannon/oxy-caps/engine/selection"
	"github.com/Carmen-Shannon/oxy-caps/engine/simulated"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFor(t *testing.T, profile simulated.Profile, req enumeration.Requirements) *enumeration.Catalog {
	t.Helper()
	catalog, err := enumeration.NewEnumerator(simulated.MustNew(profile)).BuildCatalog(req)
	require.NoError(t, err)
	return catalog
}

// singleHardwareProfile is one adapter at a 1920x1080 XRGB8 desktop with one hardware T&L device
// offering XRGB8 in both window modes and a D24S8 depth buffer.
func singleHardwareProfile() simulated.Profile {
	return simulated.Profile{Adapters: []simulated.AdapterProfile{{
		Identity: caps.AdapterIdentity{Description: "Scenario GPU", DriverVersion: "1.0.0"},
		Desktop:  caps.DisplayMode{Width: 1920, Height: 1080, Format: caps.FormatXRGB8, RefreshRate: 60},
		Modes: []caps.DisplayMode{
			{Width: 1024, Height: 768, Format: caps.FormatXRGB8, RefreshRate: 60},
			{Width: 1280, Height: 720, Format: caps.FormatXRGB8, RefreshRate: 60},
			{Width: 1920, Height: 1080, Format: caps.FormatXRGB8, RefreshRate: 60},
		},
		Devices: []simulated.DeviceProfile{{
			Kind: caps.DeviceKindHardware,
			Caps: []string{"hwtl"},
			Surfaces: []simulated.SurfaceProfile{
				{AdapterFormat: caps.FormatXRGB8, BackBufferFormat: caps.FormatXRGB8, Windowed: true, Fullscreen: true},
			},
			DepthStencil: []caps.SurfaceFormat{caps.FormatD24S8},
			Multisample:  []simulated.MultisampleProfile{{Type: caps.MultisampleNone, Qualities: 1}},
		}},
	}}}
}

func scenarioRequirements() enumeration.Requirements {
	return enumeration.Requirements{
		MinFullscreenWidth:  1280,
		MinFullscreenHeight: 720,
		MinDepthBits:        16,
		MinStencilBits:      0,
		UsesDepthBuffer:     true,
	}
}

func TestSelect_SingleHardwareAdapter(t *testing.T) {
	req := scenarioRequirements()
	catalog := catalogFor(t, singleHardwareProfile(), req)
	s := selection.NewSelector()

	win, err := s.SelectWindowed(catalog, req)
	require.NoError(t, err)
	assert.True(t, win.Combo.Windowed)
	assert.Equal(t, caps.DeviceKindHardware, win.Combo.DeviceKind)
	assert.Equal(t, catalog.PrimaryDesktopMode().Format, win.Combo.AdapterFormat)
	assert.Equal(t, catalog.PrimaryDesktopMode(), win.DisplayMode)
	assert.Equal(t, caps.FormatD24S8, win.DepthStencilFormat)
	assert.Equal(t, caps.VertexProcessingHardware, win.VertexProcessing)
	assert.Equal(t, caps.PresentIntervalDefault, win.PresentInterval)
	assert.Empty(t, win.Warnings)

	full, err := s.SelectFullscreen(catalog, req)
	require.NoError(t, err)
	assert.False(t, full.Combo.Windowed)
	assert.Equal(t, caps.FormatXRGB8, full.Combo.AdapterFormat)
	assert.Equal(t, caps.DisplayMode{Width: 1920, Height: 1080, Format: caps.FormatXRGB8, RefreshRate: 60}, full.DisplayMode)
	assert.Equal(t, full.DisplayMode, full.AdapterDesktopMode)
	assert.Empty(t, full.Warnings)
}

func TestSelect_SoftwareOnlyIsAValidFallback(t *testing.T) {
	req := enumeration.DefaultRequirements()
	catalog := catalogFor(t, simulated.SoftwareOnly(), req)
	s := selection.NewSelector()

	win, err := s.SelectWindowed(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, caps.DeviceKindSoftware, win.Combo.DeviceKind)
	assert.Equal(t, caps.VertexProcessingSoftware, win.VertexProcessing)
	assert.ErrorIs(t, win.Warnings[0], caps.ErrHardwareFallback)

	full, err := s.SelectFullscreen(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, caps.VertexProcessingSoftware, full.VertexProcessing)
	assert.Equal(t, []error{caps.ErrHardwareFallback}, full.Warnings)
}

func TestSelect_StencilRequirementEmptiesOneMode(t *testing.T) {
	cases := []struct {
		name                   string
		windowedBB, fullscreen caps.SurfaceFormat
		windowedErr            error
		fullscreenErr          error
	}{
		{
			name:        "windowed combo loses its only stencil format",
			windowedBB:  caps.FormatXRGB8,
			fullscreen:  caps.FormatARGB8,
			windowedErr: caps.ErrNoWindowableDevices,
		},
		{
			name:          "fullscreen combo loses its only stencil format",
			windowedBB:    caps.FormatARGB8,
			fullscreen:    caps.FormatXRGB8,
			fullscreenErr: caps.ErrNoFullscreenDevices,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := singleHardwareProfile()
			device := &profile.Adapters[0].Devices[0]
			device.Surfaces = []simulated.SurfaceProfile{
				{AdapterFormat: caps.FormatXRGB8, BackBufferFormat: tc.windowedBB, Windowed: true},
				{AdapterFormat: caps.FormatXRGB8, BackBufferFormat: tc.fullscreen, Fullscreen: true},
			}
			device.DepthStencil = []caps.SurfaceFormat{caps.FormatD16, caps.FormatD24S8}
			device.IncompatibleDepthStencil = []simulated.DepthStencilPair{
				{BackBufferFormat: caps.FormatXRGB8, DepthStencilFormat: caps.FormatD24S8},
			}

			req := scenarioRequirements()
			req.MinStencilBits = 8
			catalog := catalogFor(t, profile, req)
			s := selection.NewSelector()

			_, err := s.SelectWindowed(catalog, req)
			if tc.windowedErr != nil {
				assert.ErrorIs(t, err, tc.windowedErr)
			} else {
				assert.NoError(t, err)
			}

			_, err = s.SelectFullscreen(catalog, req)
			if tc.fullscreenErr != nil {
				assert.ErrorIs(t, err, tc.fullscreenErr)
			} else {
				assert.NoError(t, err)
			}

			// without the stencil minimum D16 keeps both modes alive
			req.MinStencilBits = 0
			catalog = catalogFor(t, profile, req)
			_, err = s.SelectWindowed(catalog, req)
			assert.NoError(t, err)
			_, err = s.SelectFullscreen(catalog, req)
			assert.NoError(t, err)
		})
	}
}

func TestSelect_PerfectMatchWinsOverEarlierHardwareCombos(t *testing.T) {
	req := enumeration.DefaultRequirements()
	catalog := catalogFor(t, simulated.Workstation(), req)
	s := selection.NewSelector()

	// ARGB8 back buffers are enumerated first but only XRGB8 matches the adapter format
	win, err := s.SelectWindowed(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, caps.FormatXRGB8, win.Combo.BackBufferFormat)
	assert.Equal(t, caps.VertexProcessingPureHardware, win.VertexProcessing)

	full, err := s.SelectFullscreen(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, caps.FormatXRGB8, full.Combo.BackBufferFormat)
	// the panel also lists 1920x1080@144, but the exact desktop mode wins
	assert.Equal(t, caps.DisplayMode{Width: 1920, Height: 1080, Format: caps.FormatXRGB8, RefreshRate: 60}, full.DisplayMode)
	assert.Equal(t, full.AdapterDesktopMode, full.DisplayMode)
}

func TestSelect_HardwarePreferredAcrossAdapters(t *testing.T) {
	req := enumeration.DefaultRequirements()
	catalog := catalogFor(t, simulated.DualAdapter(), req)
	s := selection.NewSelector()

	// only the 16-bit primary adapter matches the windowed desktop format
	win, err := s.SelectWindowed(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, 0, win.Combo.AdapterOrdinal)
	assert.Equal(t, caps.FormatRGB565, win.Combo.AdapterFormat)
	assert.Equal(t, []error{caps.ErrHardwareFallback}, win.Warnings)

	full, err := s.SelectFullscreen(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, 1, full.Combo.AdapterOrdinal)
	assert.Equal(t, caps.DeviceKindHardware, full.Combo.DeviceKind)
	assert.True(t, full.Combo.SelfMatching())
	assert.Equal(t, caps.DisplayMode{Width: 2560, Height: 1440, Format: caps.FormatXRGB8, RefreshRate: 120}, full.DisplayMode)
	assert.Equal(t, full.DisplayMode, full.AdapterDesktopMode)
	assert.Empty(t, full.Warnings)
}

func TestSelect_RequireHardwareDegradesWithWarning(t *testing.T) {
	req := enumeration.DefaultRequirements()
	req.RequireHardware = true
	catalog := catalogFor(t, simulated.SoftwareOnly(), req)
	s := selection.NewSelector()

	win, err := s.SelectWindowed(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, caps.DeviceKindSoftware, win.Combo.DeviceKind)
	assert.Equal(t, []error{caps.ErrHardwareFallback}, win.Warnings)

	full, err := s.SelectFullscreen(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, []error{caps.ErrHardwareFallback}, full.Warnings)
}

func TestSelect_RequireReferenceFiltersKinds(t *testing.T) {
	req := enumeration.DefaultRequirements()
	req.RequireReference = true
	catalog := catalogFor(t, simulated.Workstation(), req)
	s := selection.NewSelector()

	win, err := s.SelectWindowed(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, caps.DeviceKindReference, win.Combo.DeviceKind)
	assert.Empty(t, win.Warnings)

	full, err := s.SelectFullscreen(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, caps.DeviceKindReference, full.Combo.DeviceKind)
	assert.Empty(t, full.Warnings)
}

func TestSelect_ReferenceNotDesktopCompatible(t *testing.T) {
	profile := simulated.ReferenceOnly()
	a := &profile.Adapters[0]
	a.Modes = append(a.Modes, simulated.DesktopModes(caps.FormatRGB565)...)
	device := &a.Devices[0]
	device.Surfaces = slices.DeleteFunc(device.Surfaces, func(s simulated.SurfaceProfile) bool {
		return s.AdapterFormat != caps.FormatRGB565
	})

	req := enumeration.DefaultRequirements()
	catalog := catalogFor(t, profile, req)
	s := selection.NewSelector()

	_, err := s.SelectWindowed(catalog, req)
	assert.ErrorIs(t, err, caps.ErrNoWindowableDevices)

	req.RequireReference = true
	win, err := s.SelectWindowed(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, caps.FormatRGB565, win.Combo.AdapterFormat)
	assert.Equal(t, []error{caps.ErrReferenceNotDesktopCompatible}, win.Warnings)

	full, err := s.SelectFullscreen(catalog, req)
	require.NoError(t, err)
	assert.Equal(t, caps.FormatRGB565, full.Combo.AdapterFormat)
	assert.Equal(t, caps.FormatRGB565, full.DisplayMode.Format)
	assert.Equal(t, []error{caps.ErrReferenceNotDesktopCompatible}, full.Warnings)
}

func TestSelect_NilCatalog(t *testing.T) {
	s := selection.NewSelector()

	_, err := s.SelectWindowed(nil, enumeration.DefaultRequirements())
	assert.ErrorIs(t, err, caps.ErrNoWindowableDevices)

	_, err = s.SelectFullscreen(nil, enumeration.DefaultRequirements())
	assert.ErrorIs(t, err, caps.ErrNoFullscreenDevices)
}

func TestSelect_ChoicesAreMembersOfTheCatalog(t *testing.T) {
	for _, name := range simulated.PresetNames() {
		t.Run(name, func(t *testing.T) {
			profile, err := simulated.Preset(name)
			require.NoError(t, err)

			req := enumeration.DefaultRequirements()
			catalog := catalogFor(t, profile, req)
			s := selection.NewSelector()

			win, err := s.SelectWindowed(catalog, req)
			require.NoError(t, err)
			full, err := s.SelectFullscreen(catalog, req)
			require.NoError(t, err)

			for _, resolved := range []selection.ResolvedConfiguration{win, full} {
				c := resolved.Resolved()
				require.True(t, catalog.Contains(c.Combo))
				assert.Contains(t, c.Combo.DepthStencilFormats, c.DepthStencilFormat)
				assert.Contains(t, c.Combo.MultisampleTypes, c.Multisample)
				assert.Contains(t, c.Combo.VertexProcessing, c.VertexProcessing)
				assert.Contains(t, c.Combo.PresentIntervals, c.PresentInterval)
			}
			assert.True(t, win.Combo.Windowed)
			assert.False(t, full.Combo.Windowed)
			assert.Equal(t, catalog.PrimaryDesktopMode().Format, win.Combo.AdapterFormat)

			adapter := catalog.Adapter(full.Combo.AdapterOrdinal)
			require.NotNil(t, adapter)
			assert.Contains(t, adapter.DisplayModes, full.DisplayMode)
		})
	}
}

func TestSelect_ResolvedReturnsACopy(t *testing.T) {
	req := enumeration.DefaultRequirements()
	catalog := catalogFor(t, simulated.SoftwareOnly(), req)

	win, err := selection.NewSelector().SelectWindowed(catalog, req)
	require.NoError(t, err)
	require.Equal(t, []error{caps.ErrHardwareFallback}, win.Warnings)

	c := win.Resolved()
	c.Warnings[0] = caps.ErrNoCompatibleDevices
	c.DepthStencilFormat = caps.FormatUnknown
	assert.Equal(t, []error{caps.ErrHardwareFallback}, win.Warnings)
	assert.NotEqual(t, caps.FormatUnknown, win.DepthStencilFormat)
	assert.Same(t, win.Combo, c.Combo)
}

func TestSelect_Deterministic(t *testing.T) {
	req := enumeration.DefaultRequirements()
	s := selection.NewSelector()
	opts := cmp.Options{cmpopts.EquateErrors()}

	first := catalogFor(t, simulated.DualAdapter(), req)
	wantWin, err := s.SelectWindowed(first, req)
	require.NoError(t, err)
	wantFull, err := s.SelectFullscreen(first, req)
	require.NoError(t, err)

	for range 3 {
		catalog := catalogFor(t, simulated.DualAdapter(), req)
		win, err := s.SelectWindowed(catalog, req)
		require.NoError(t, err)
		full, err := s.SelectFullscreen(catalog, req)
		require.NoError(t, err)

		if diff := cmp.Diff(wantWin, win, opts); diff != "" {
			t.Fatalf("windowed selection changed (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(wantFull, full, opts); diff != "" {
			t.Fatalf("fullscreen selection changed (-want +got):\n%s", diff)
		}
	}
}

func TestSelect_ProfilerStages(t *testing.T) {
	req := enumeration.DefaultRequirements()
	catalog := catalogFor(t, simulated.Workstation(), req)

	p := profiler.NewProfiler()
	s := selection.NewSelector(selection.WithProfiler(p))
	_, err := s.SelectWindowed(catalog, req)
	require.NoError(t, err)
	_, err = s.SelectFullscreen(catalog, req)
	require.NoError(t, err)

	assert.Equal(t, 1, p.StageRuns(profiler.StageSelectWindowed))
	assert.Equal(t, 1, p.StageRuns(profiler.StageSelectFullscreen))
}
