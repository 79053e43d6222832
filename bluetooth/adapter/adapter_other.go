//go:build !linux

package adapter

import "errors"

// ErrUnsupported is returned on platforms with no BlueZ D-Bus daemon.
var ErrUnsupported = errors.New("adapter: host adapter enumeration is only supported on linux")

// DefaultLister returns the no-op Lister on platforms without BlueZ.
func DefaultLister() Lister { return NullLister{} }

// NullLister reports no adapters on platforms without BlueZ.
type NullLister struct{}

func (NullLister) List() ([]Info, error) {
	return nil, ErrUnsupported
}

// PrepareForPairing always fails outside linux.
func PrepareForPairing(adapterID string) error {
	return ErrUnsupported
}
