// Package adapter reports on the host's Bluetooth controllers. It exists
// for the CLI's pre-flight checks: before the virtual HCI/L2CAP stack in
// bluetooth/hci and bluetooth/l2cap starts presenting fake Wiimotes, the
// host needs a powered, discoverable adapter for a Wii to actually find
// them over the air.
package adapter

// Info describes one host Bluetooth controller.
type Info struct {
	Path          string
	Address       string
	Alias         string
	Powered       bool
	Discoverable  bool
	Pairable      bool
}

// Lister enumerates the host's Bluetooth adapters.
type Lister interface {
	List() ([]Info, error)
}
