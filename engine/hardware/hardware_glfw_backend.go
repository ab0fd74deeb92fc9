package hardware

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// probeGLFWMonitors snapshots every connected monitor's desktop and supported video modes.
// GLFW is initialized for the duration of the probe only.
//
// GLFW reference: https://www.glfw.org/docs/latest/monitor_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Monitor.GetVideoModes
func probeGLFWMonitors() ([]monitorSnapshot, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	primary := glfw.GetPrimaryMonitor()
	if primary == nil {
		return nil, fmt.Errorf("no monitor connected")
	}

	// GetMonitors lists the primary first, but order it explicitly in case a platform does not.
	monitors := []*glfw.Monitor{primary}
	for _, m := range glfw.GetMonitors() {
		if m != primary {
			monitors = append(monitors, m)
		}
	}

	snapshots := make([]monitorSnapshot, 0, len(monitors))
	for _, m := range monitors {
		current := m.GetVideoMode()
		if current == nil {
			continue
		}
		snap := monitorSnapshot{
			name:    m.GetName(),
			desktop: displayModeOf(current),
		}
		for _, vm := range m.GetVideoModes() {
			if mode := displayModeOf(vm); mode.Format != caps.FormatUnknown {
				snap.modes = append(snap.modes, mode)
			}
		}
		snapshots = append(snapshots, snap)
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("no monitor reported a video mode")
	}
	return snapshots, nil
}

func displayModeOf(vm *glfw.VidMode) caps.DisplayMode {
	return caps.DisplayMode{
		Width:       vm.Width,
		Height:      vm.Height,
		Format:      formatFromBits(vm.RedBits, vm.GreenBits, vm.BlueBits),
		RefreshRate: vm.RefreshRate,
	}
}
