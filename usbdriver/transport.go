package usbdriver

import "sync"

// LoopbackTransport is a Transport implementation with no real USB backend:
// IssueInterruptTransfer records the last buffer sent to an endpoint (for
// drivers' LED/rumble writes), and IssueInterruptTransferAsync completes
// immediately against whatever was last queued with Feed. It is the
// Transport used by tests and by the CLI's run command in every mode; a real
// backend would replace it with one bound to an actual USB host stack,
// which is not available anywhere in this module's dependency corpus.
type LoopbackTransport struct {
	mu       sync.Mutex
	sent     map[uint8][]byte
	queued   map[*Device]map[uint8][]byte
	onIssued func(dev *Device, endpoint uint8, data []byte)
}

// NewLoopbackTransport constructs an idle LoopbackTransport.
func NewLoopbackTransport() *LoopbackTransport {
	return &LoopbackTransport{
		sent:   make(map[uint8][]byte),
		queued: make(map[*Device]map[uint8][]byte),
	}
}

// OnIssued installs a hook called synchronously every time a blocking
// transfer is issued, letting tests observe LED/rumble writes.
func (t *LoopbackTransport) OnIssued(f func(dev *Device, endpoint uint8, data []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onIssued = f
}

// Feed stages the bytes a subsequent IssueInterruptTransferAsync call for
// dev/endpoint should return, simulating a physical device's report
// arriving on the wire.
func (t *LoopbackTransport) Feed(dev *Device, endpoint uint8, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	perDev, ok := t.queued[dev]
	if !ok {
		perDev = make(map[uint8][]byte)
		t.queued[dev] = perDev
	}
	perDev[endpoint] = append([]byte(nil), data...)
}

func (t *LoopbackTransport) IssueInterruptTransfer(dev *Device, endpoint uint8, data []byte) error {
	t.mu.Lock()
	t.sent[endpoint] = append([]byte(nil), data...)
	hook := t.onIssued
	t.mu.Unlock()
	if hook != nil {
		hook(dev, endpoint, data)
	}
	return nil
}

func (t *LoopbackTransport) IssueInterruptTransferAsync(dev *Device, endpoint uint8, into []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	perDev := t.queued[dev]
	if perDev == nil {
		return nil
	}
	data := perDev[endpoint]
	n := copy(into, data)
	_ = n
	return nil
}
