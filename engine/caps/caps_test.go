package caps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurfaceFormat_Bits(t *testing.T) {
	cases := []struct {
		format                         SurfaceFormat
		channel, alpha, depth, stencil int
		depthStencil                   bool
	}{
		{FormatARGB8, 8, 8, 0, 0, false},
		{FormatXRGB8, 8, 0, 0, 0, false},
		{FormatA2RGB10, 10, 2, 0, 0, false},
		{FormatRGB565, 5, 0, 0, 0, false},
		{FormatD24S8, 0, 0, 24, 8, true},
		{FormatD15S1, 0, 0, 15, 1, true},
		{FormatD32FS8, 0, 0, 32, 8, true},
		{FormatUnknown, 0, 0, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.format.String(), func(t *testing.T) {
			assert.Equal(t, tc.channel, tc.format.ColorChannelBits())
			assert.Equal(t, tc.alpha, tc.format.AlphaBits())
			assert.Equal(t, tc.depth, tc.format.DepthBits())
			assert.Equal(t, tc.stencil, tc.format.StencilBits())
			assert.Equal(t, tc.depthStencil, tc.format.IsDepthStencil())
		})
	}
}

func TestSurfaceFormat_AllowListsAreOrdered(t *testing.T) {
	assert.Equal(t, []SurfaceFormat{FormatXRGB8, FormatXRGB1555, FormatRGB565, FormatA2RGB10}, AdapterFormats)
	assert.Equal(t, FormatARGB8, BackBufferFormats[0])
	for _, f := range DepthStencilFormats {
		assert.True(t, f.IsDepthStencil(), f.String())
	}
}

func TestSurfaceFormat_TextRoundTrip(t *testing.T) {
	f, err := ParseSurfaceFormat("d24s8")
	require.NoError(t, err)
	assert.Equal(t, FormatD24S8, f)

	var parsed SurfaceFormat
	require.NoError(t, parsed.UnmarshalText([]byte("XRGB8")))
	assert.Equal(t, FormatXRGB8, parsed)

	_, err = ParseSurfaceFormat("RGBA32F")
	assert.Error(t, err)
}

func TestMultisampleType_UnmarshalText(t *testing.T) {
	cases := map[string]MultisampleType{
		"none":        MultisampleNone,
		"nonmaskable": MultisampleNonMaskable,
		"4x":          Multisample4x,
		"16X":         Multisample16x,
		"8":           Multisample8x,
	}
	for text, want := range cases {
		var got MultisampleType
		require.NoError(t, got.UnmarshalText([]byte(text)), text)
		assert.Equal(t, want, got, text)
	}

	var bad MultisampleType
	assert.Error(t, bad.UnmarshalText([]byte("32x")))
	assert.Error(t, bad.UnmarshalText([]byte("lots")))
}

func TestMultisampleTypes_CoverEveryLevel(t *testing.T) {
	require.Len(t, MultisampleTypes, 17)
	assert.Equal(t, MultisampleNone, MultisampleTypes[0])
	assert.Equal(t, MultisampleNonMaskable, MultisampleTypes[1])
	assert.Equal(t, Multisample16x, MultisampleTypes[16])
}

func TestDeviceKind_Text(t *testing.T) {
	for _, kind := range DeviceKinds {
		text, err := kind.MarshalText()
		require.NoError(t, err)

		var parsed DeviceKind
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, kind, parsed)
	}

	var bad DeviceKind
	assert.Error(t, bad.UnmarshalText([]byte("quantum")))
}

func TestCapabilityBits_Parse(t *testing.T) {
	bits, ok := ParseCapabilityBits([]string{"hwtl", "PURE", "interval-two"})
	require.True(t, ok)
	assert.True(t, bits.Has(CapHardwareTransformLighting|CapPureDevice))
	assert.True(t, bits.Has(PresentIntervalBit(PresentIntervalTwo)))
	assert.False(t, bits.Has(CapPresentIntervalOne))
	assert.Equal(t, "hwtl|pure|interval-two", bits.String())

	_, ok = ParseCapabilityBits([]string{"hwtl", "raytracing"})
	assert.False(t, ok)

	assert.Equal(t, "none", CapabilityBits(0).String())
}

func TestPresentInterval_Gating(t *testing.T) {
	assert.Zero(t, PresentIntervalBit(PresentIntervalImmediate))
	assert.Zero(t, PresentIntervalBit(PresentIntervalDefault))
	assert.Equal(t, CapPresentIntervalFour, PresentIntervalBit(PresentIntervalFour))

	assert.False(t, PresentIntervalOne.IsMultiFrame())
	assert.True(t, PresentIntervalThree.IsMultiFrame())
}
