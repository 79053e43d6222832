package wiimote

import (
	"errors"
	"testing"

	"github.com/Alia5/fakemote/bluetooth/hci"
	"github.com/Alia5/fakemote/bluetooth/loopback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selectiveFailSender wraps a loopback.Sender but fails SendConnectReq for
// one specific connection handle, letting a test force one session's Tick
// to error without touching the others.
type selectiveFailSender struct {
	*loopback.Sender
	failConnHandle uint16
}

func (s *selectiveFailSender) SendConnectReq(conHandle uint16, psm uint16, scid uint16) error {
	if conHandle == s.failConnHandle {
		return errors.New("forced connect req failure")
	}
	return s.Sender.SendConnectReq(conHandle, psm, scid)
}

type stubDriver struct {
	assigned, disconnected bool
	leds                   uint8
}

func (d *stubDriver) SetLEDs(leds uint8) { d.leds = leds }
func (d *stubDriver) Assigned()          { d.assigned = true }
func (d *stubDriver) Disconnected()      { d.disconnected = true }

func newTestManager() (*Manager, *loopback.Backend) {
	backend := loopback.NewBackend()
	m := NewManager(loopback.NewTransport(backend), loopback.NewSender(backend))
	return m, backend
}

func TestNewManagerAllSlotsIdle(t *testing.T) {
	m, _ := newTestManager()
	snap := m.Snapshot()
	require.Len(t, snap, MaxFakeWiimotes)
	for i, s := range snap {
		assert.False(t, s.Active)
		assert.Equal(t, i, s.Slot)
	}
}

func TestAddInputDeviceFillsFreeSlotsThenErrors(t *testing.T) {
	m, _ := newTestManager()
	for i := 0; i < MaxFakeWiimotes; i++ {
		s, err := m.AddInputDevice(&stubDriver{})
		require.NoError(t, err)
		assert.Equal(t, i, s.slot)
	}
	_, err := m.AddInputDevice(&stubDriver{})
	assert.Error(t, err)
}

func TestHandleAcceptConnectionRequestUnknownAddressIsNotOwned(t *testing.T) {
	m, _ := newTestManager()
	var unknown hci.BDAddr
	copy(unknown[:], []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x99})
	handled, err := m.HandleAcceptConnectionRequest(unknown, hci.RoleMaster)
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestHandleAcceptConnectionRequestMatchesFullAddress(t *testing.T) {
	m, backend := newTestManager()
	s, err := m.AddInputDevice(&stubDriver{})
	require.NoError(t, err)
	addr := s.BDAddr()

	handled, err := m.HandleAcceptConnectionRequest(addr, hci.RoleMaster)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, m.OwnsConnectionHandle(s.conHandle))
	assert.NotZero(t, s.conHandle)
	assert.Equal(t, BasebandComplete, s.baseband)

	var kinds []string
	for _, ev := range backend.Events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, "EnqueueCommandStatus")
	assert.Contains(t, kinds, "EnqueueConnectionComplete")
	assert.Contains(t, kinds, "EnqueueRoleChange")

	// An address differing only in a byte other than the one distinguishing
	// slots must not match: guards the full 6-byte comparison (Open
	// Question (b) in spec.md's design notes).
	mutated := addr
	mutated[3] ^= 0xff
	handled, err = m.HandleAcceptConnectionRequest(mutated, hci.RoleMaster)
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestHandleDisconnectUnknownHandleNotOwned(t *testing.T) {
	m, _ := newTestManager()
	handled, err := m.HandleDisconnect(0xffff)
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestHandleDisconnectTearsDownOwnedSession(t *testing.T) {
	m, _ := newTestManager()
	s, err := m.AddInputDevice(&stubDriver{})
	require.NoError(t, err)
	_, err = m.HandleAcceptConnectionRequest(s.BDAddr(), hci.RoleSlave)
	require.NoError(t, err)
	conHandle := s.conHandle

	handled, err := m.HandleDisconnect(conHandle)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.False(t, m.OwnsConnectionHandle(conHandle))
}

func TestTickSkipsIdleSessions(t *testing.T) {
	m, _ := newTestManager()
	require.NoError(t, m.Tick())
}

func TestTickKeepsTickingOtherSessionsAfterOneErrorsAndDisconnectsIt(t *testing.T) {
	backend := loopback.NewBackend()
	transport := loopback.NewTransport(backend)
	sender := &selectiveFailSender{Sender: loopback.NewSender(backend)}
	m := NewManager(transport, sender)

	failing, err := m.AddInputDevice(&stubDriver{})
	require.NoError(t, err)
	ok1, err := m.AddInputDevice(&stubDriver{})
	require.NoError(t, err)
	ok2, err := m.AddInputDevice(&stubDriver{})
	require.NoError(t, err)

	_, err = m.HandleAcceptConnectionRequest(failing.BDAddr(), hci.RoleSlave)
	require.NoError(t, err)
	_, err = m.HandleAcceptConnectionRequest(ok1.BDAddr(), hci.RoleSlave)
	require.NoError(t, err)
	_, err = m.HandleAcceptConnectionRequest(ok2.BDAddr(), hci.RoleSlave)
	require.NoError(t, err)

	// Only the failing session's ACL-linking CONNECT_REQ errors; the other
	// two sessions' bring-up must still proceed the same tick.
	sender.failConnHandle = failing.ConnectionHandle()

	err = m.Tick()
	require.Error(t, err)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, failing.Slot(), protoErr.Slot)
	assert.False(t, failing.Active(), "the erroring session must be disconnected, not left to fail every tick")
	assert.True(t, ok1.Active(), "a sibling session must still be ticked the same cycle")
	assert.True(t, ok2.Active(), "a sibling session must still be ticked the same cycle")

	cntl1 := ok1.chans.get(ChannelHIDControl)
	assert.True(t, cntl1.Valid, "a sibling session's own channel bring-up must still advance this tick")
}
