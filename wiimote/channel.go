package wiimote

import "github.com/Alia5/fakemote/bluetooth/l2cap"

// ChannelState mirrors the teacher's small per-entity state-machine structs
// (e.g. usbip's ExportMeta/channel bookkeeping), tagged instead of flattened
// into booleans.
type ChannelState int

const (
	ChannelInactive ChannelState = iota
	ChannelConfigPending
	ChannelComplete
)

// ChannelRole names the three possible PSM roles a session's channel table
// tracks.
type ChannelRole int

const (
	ChannelSDP ChannelRole = iota
	ChannelHIDControl
	ChannelHIDInterrupt
	channelRoleCount
)

// Channel is a single L2CAP channel record, spec.md §3 "Channel record".
type Channel struct {
	Valid     bool
	PSM       uint16
	LocalCID  uint16
	RemoteCID uint16
	RemoteMTU uint16
	State     ChannelState
}

func setupChannel(c *Channel, psm uint16, localCID uint16) {
	*c = Channel{
		Valid:    true,
		PSM:      psm,
		LocalCID: localCID,
		State:    ChannelInactive,
	}
}

// IsAccepted reports whether the peer has replied with a remote CID.
func (c *Channel) IsAccepted() bool {
	return c.Valid && c.RemoteCID != l2cap.NullCID
}

// IsRemoteConfigured reports whether the peer's MTU has been recorded.
func (c *Channel) IsRemoteConfigured() bool {
	return c.Valid && c.RemoteMTU != 0
}

// IsComplete implements invariant #2: Complete implies an accepted,
// remote-configured channel whose own config state has also finished.
func (c *Channel) IsComplete() bool {
	return c.Valid && c.IsAccepted() && c.IsRemoteConfigured() && c.State == ChannelComplete
}

// channelTable holds a session's three possible channels, keyed by role.
type channelTable struct {
	chans [channelRoleCount]Channel
}

func (t *channelTable) get(role ChannelRole) *Channel {
	return &t.chans[role]
}

// byLocalCID finds the channel whose LocalCID matches, used when resolving
// CONNECT_RSP/CONFIG_RSP replies addressed by scid == our local_cid.
func (t *channelTable) byLocalCID(cid uint16) *Channel {
	for i := range t.chans {
		if t.chans[i].Valid && t.chans[i].LocalCID == cid {
			return &t.chans[i]
		}
	}
	return nil
}

func (t *channelTable) reset() {
	t.chans = [channelRoleCount]Channel{}
}
