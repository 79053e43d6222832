// Package hci pins the small slice of the Host Controller Interface the
// Wiimote manager needs: link types, roles, the fake peripherals' device
// class bytes, and the outbound event/command collaborator boundary. Socket
// I/O to a real controller is out of scope; Transport is implemented by
// whatever owns that connection.
package hci

// BDAddr is a 6-byte Bluetooth device address.
type BDAddr [6]byte

// Link types accepted by Accept_Connection_Request.
const (
	LinkACL uint8 = 0x01
)

// Roles used in Accept_Connection_Request / Role_Change.
const (
	RoleMaster uint8 = 0x00
	RoleSlave  uint8 = 0x01
)

// Device class bytes the fake Wiimotes advertise during connection requests.
const (
	WiimoteHCIClass0 uint8 = 0x00
	WiimoteHCIClass1 uint8 = 0x04
	WiimoteHCIClass2 uint8 = 0x48
)

// HCI command opcodes referenced by emitted events.
const (
	CmdAcceptConnectionRequest uint16 = 0x0409
)

// Disconnect reasons.
const (
	ReasonUserEndedConnection uint8 = 0x13
)

// Transport is the external HCI collaborator. RequestConnection may report
// "busy" (false), in which case the session retries on its next tick (see
// Session.Tick); the Enqueue* event primitives report failure as an error,
// which the core returns to its caller without retrying.
type Transport interface {
	// RequestConnection asks the controller to page a peer at bdaddr. Returns
	// false if the primitive could not be issued this tick (busy).
	RequestConnection(bdaddr BDAddr, class0, class1, class2 uint8, linkType uint8) bool

	EnqueueCommandStatus(cmd uint16) error
	EnqueueConnectionComplete(bdaddr BDAddr, conHandle uint16, status uint8) error
	EnqueueDisconnectionComplete(conHandle uint16, status uint8, reason uint8) error
	EnqueueRoleChange(bdaddr BDAddr, newRole uint8) error

	// AllocConnectionHandle returns a fresh virtual HCI connection handle.
	AllocConnectionHandle() uint16
}
