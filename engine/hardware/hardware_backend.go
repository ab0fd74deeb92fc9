package hardware

import "github.com/Carmen-Shannon/oxy-caps/engine/caps"

// gpuSnapshot is what the provider keeps of a GPU adapter after probing it. The native adapter
// is released once the snapshot is taken.
type gpuSnapshot struct {
	identity caps.AdapterIdentity
	kind     caps.DeviceKind

	// depth32Stencil8 reports support for the optional 32-bit float depth + 8-bit stencil format.
	depth32Stencil8 bool
}

// monitorSnapshot is a connected monitor's current and supported video modes.
type monitorSnapshot struct {
	name    string
	desktop caps.DisplayMode
	modes   []caps.DisplayMode
}

// hardwareBackend probes the platform. Implementations run once, on the constructing goroutine.
type hardwareBackend interface {
	// probeMonitors returns every connected monitor, primary first.
	probeMonitors() ([]monitorSnapshot, error)

	// probeAdapters returns the GPU adapters the graphics runtime offers. With forceFallback only
	// the software fallback adapter is requested.
	probeAdapters(forceFallback bool) ([]gpuSnapshot, error)
}

// platformBackend probes real hardware through GLFW and WebGPU.
type platformBackend struct{}

var _ hardwareBackend = platformBackend{}

func (platformBackend) probeMonitors() ([]monitorSnapshot, error) {
	return probeGLFWMonitors()
}

func (platformBackend) probeAdapters(forceFallback bool) ([]gpuSnapshot, error) {
	return probeWGPUAdapters(forceFallback)
}

// formatFromBits maps monitor channel depths to the closest adapter format.
func formatFromBits(red, green, blue int) caps.SurfaceFormat {
	switch {
	case red == 10 && green == 10 && blue == 10:
		return caps.FormatA2RGB10
	case red == 8 && green == 8 && blue == 8:
		return caps.FormatXRGB8
	case red == 5 && green == 6 && blue == 5:
		return caps.FormatRGB565
	case red == 5 && green == 5 && blue == 5:
		return caps.FormatXRGB1555
	}
	return caps.FormatUnknown
}
