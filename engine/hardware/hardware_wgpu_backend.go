package hardware

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/cogentcore/webgpu/wgpu"
)

// probeWGPUAdapters requests the default adapter and the software fallback adapter from a fresh
// WebGPU instance and snapshots both. Either request may fail; only both failing is an error.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpu#Instance.RequestAdapter
func probeWGPUAdapters(forceFallback bool) ([]gpuSnapshot, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	var (
		snapshots []gpuSnapshot
		errs      []error
	)
	requests := []bool{false, true}
	if forceFallback {
		requests = []bool{true}
	}
	for _, fallback := range requests {
		a, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			ForceFallbackAdapter: fallback,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		snap := snapshotAdapter(a)
		a.Release()

		if hasKind(snapshots, snap.kind) {
			continue
		}
		snapshots = append(snapshots, snap)
	}

	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: no WebGPU adapter available: %v", caps.ErrNoGraphicsProvider, errs)
	}
	return snapshots, nil
}

func snapshotAdapter(a *wgpu.Adapter) gpuSnapshot {
	info := a.GetInfo()

	kind := caps.DeviceKindHardware
	if info.AdapterType == wgpu.AdapterTypeCPU {
		kind = caps.DeviceKindSoftware
	}
	return gpuSnapshot{
		identity: caps.AdapterIdentity{
			Description:   info.Name,
			Vendor:        info.VendorName,
			VendorID:      info.VendorId,
			DeviceID:      info.DeviceId,
			DriverVersion: info.DriverDescription,
		},
		kind:            kind,
		depth32Stencil8: a.HasFeature(wgpu.FeatureNameDepth32FloatStencil8),
	}
}

func hasKind(snapshots []gpuSnapshot, kind caps.DeviceKind) bool {
	for _, s := range snapshots {
		if s.kind == kind {
			return true
		}
	}
	return false
}
