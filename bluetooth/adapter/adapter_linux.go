//go:build linux

package adapter

import (
	godbus "github.com/muka/go-bluetooth/bluez/profile/adapter"
)

// DefaultLister returns the BlueZ-backed Lister on linux.
func DefaultLister() Lister { return BlueZLister{} }

// BlueZLister lists adapters known to the system's BlueZ daemon over D-Bus.
type BlueZLister struct{}

// List returns every adapter BlueZ currently exposes, along with the
// discoverability/pairability/power state a Wii needs to find this host.
func (BlueZLister) List() ([]Info, error) {
	adapters, err := godbus.GetAdapterIds()
	if err != nil {
		return nil, err
	}
	infos := make([]Info, 0, len(adapters))
	for _, id := range adapters {
		a, err := godbus.GetAdapter(id)
		if err != nil {
			continue
		}
		props, err := a.GetProperties()
		if err != nil {
			a.Close()
			continue
		}
		infos = append(infos, Info{
			Path:         id,
			Address:      props.Address,
			Alias:        props.Alias,
			Powered:      props.Powered,
			Discoverable: props.Discoverable,
			Pairable:     props.Pairable,
		})
		a.Close()
	}
	return infos, nil
}

// PrepareForPairing powers the adapter on and makes it discoverable and
// pairable, the state a Wii's "Find Controllers" sync expects.
func PrepareForPairing(adapterID string) error {
	a, err := godbus.GetAdapter(adapterID)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.SetPowered(true); err != nil {
		return err
	}
	if err := a.SetPairable(true); err != nil {
		return err
	}
	return a.SetDiscoverable(true)
}
