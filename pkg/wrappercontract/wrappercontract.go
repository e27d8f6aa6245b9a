// Package wrappercontract specifies, but does not implement, the host
// joystick library boundary spec.md §6 describes: a LibWrapper polls some
// platform input library, identifies connected devices by their USB HID
// ids, and surfaces raw button/axis/hat/ball state that evalcontract.
// Evaluate consumes once a binding has been resolved against this
// package's sibling, pkg/lazynputdb.
//
// No concrete backend (SDL, evdev, XInput, ...) is implemented; spec.md
// §1 puts "physical-input wrappers" and "file discovery, CLI, windowing"
// out of scope, and §9 asks only that the capability set be modeled as
// an interface rather than a class hierarchy, matching
// kevmo314-go-usb-style per-platform build tags a real backend would
// need (not built here).
package wrappercontract

import "github.com/lazynput/lazynputdb/internal/devicesdb"

// ConnectionStatus is the per-slot state a wrapper reports on each poll.
type ConnectionStatus int

const (
	Disconnected ConnectionStatus = iota
	Unsupported
	Fallback
	Supported
)

func (s ConnectionStatus) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Unsupported:
		return "unsupported"
	case Fallback:
		return "fallback"
	case Supported:
		return "supported"
	default:
		return "unknown"
	}
}

// LibWrapper is the capability set a host input library backend exposes:
// enumerate connected devices by HID id, and read each physical input
// kind by index. A wrapper polls this once per frame and feeds the
// result to pkg/lazynputdb.Query.GetDevice, then to evalcontract.Evaluate.
type LibWrapper interface {
	Enumerate() []devicesdb.HidIds
	ReadButton(slot, index int) float64
	ReadAxis(slot, index int) float64
	ReadHat(slot, index int) (x, y int)
	ReadBall(slot, index int) (dx, dy float64)
}

// SlotState is what a wrapper's update loop maintains per connected slot:
// its resolution status and the Device (if any) backing it, matching
// spec.md §6's "per-slot {status, device}" description. Device is typed
// `any`, so this package does not import pkg/lazynputdb, where the
// concrete resolved-device type lives; wrapper implementations store and
// type-assert a *lazynputdb.Device.
type SlotState struct {
	Status ConnectionStatus
	Device any
}
