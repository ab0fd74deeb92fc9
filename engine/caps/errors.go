package caps

import "errors"

// Negotiation errors. Fatal conditions are returned from the top-level calls; soft conditions
// (ErrHardwareFallback, ErrReferenceNotDesktopCompatible) are attached to resolved configurations
// as warnings and never fail a selection.
var (
	// ErrNoGraphicsProvider is returned when the capability provider is missing or cannot be queried.
	ErrNoGraphicsProvider = errors.New("caps: no graphics provider available")

	// ErrNoCompatibleDevices is returned when the catalog is empty after pruning.
	ErrNoCompatibleDevices = errors.New("caps: no compatible devices found")

	// ErrNoWindowableDevices is returned when no combo can render to a window on the desktop format.
	ErrNoWindowableDevices = errors.New("caps: no windowable devices found")

	// ErrNoFullscreenDevices is returned when no combo can render fullscreen.
	ErrNoFullscreenDevices = errors.New("caps: no fullscreen devices found")

	// ErrHardwareFallback reports that the selected device is not hardware accelerated.
	ErrHardwareFallback = errors.New("caps: hardware device unavailable, falling back to software or reference device")

	// ErrReferenceNotDesktopCompatible reports that the selected reference device cannot match the desktop format.
	ErrReferenceNotDesktopCompatible = errors.New("caps: reference device is not compatible with the desktop format")

	// ErrInvalidRequirements is returned when requirements contradict themselves.
	ErrInvalidRequirements = errors.New("caps: invalid requirements")

	// ErrNilConfiguration is returned when materializing a nil resolved configuration.
	ErrNilConfiguration = errors.New("caps: nil resolved configuration")

	// ErrDeviceKindUnavailable is returned by providers for device kinds an adapter does not expose.
	ErrDeviceKindUnavailable = errors.New("caps: device kind unavailable on adapter")
)
