package wiimote

import "fmt"

// ExtensionRegWindowSize is the size of the extension's I2C-addressable
// register window.
const ExtensionRegWindowSize = 256

// Fixed offsets inside the 256-byte extension register window. Only the
// offsets the protocol actually touches are named; everything else is
// opaque scratch space the host may also write/read.
const (
	ControllerDataOffset   = 0x00
	ControllerDataSize     = 21
	EncryptionKeyDataBegin = 0x40
	EncryptionKeyDataEnd   = 0x50
	EncryptionOffset       = 0xf0
	IdentifierOffset       = 0xfa
	IdentifierSize         = 6
)

// EncryptionEnabled is the value of the encryption flag byte (offset 0xf0)
// that turns on stream-cipher post-processing of register reads.
const EncryptionEnabled uint8 = 0xaa

// ExtensionRegisters is the 256-byte register window backing the emulated
// extension controller, plus the derived-key cache spec.md §4.2 describes.
type ExtensionRegisters struct {
	data      [ExtensionRegWindowSize]byte
	key       ExtensionKey
	keyDirty  bool
}

// NewExtensionRegisters returns a zeroed window with a dirty key, matching
// fake_wiimote_mgr_add_input_device's reset of new sessions.
func NewExtensionRegisters() ExtensionRegisters {
	return ExtensionRegisters{keyDirty: true}
}

// Reset clears the window and marks the derived key dirty again.
func (r *ExtensionRegisters) Reset() {
	r.data = [ExtensionRegWindowSize]byte{}
	r.key = ExtensionKey{}
	r.keyDirty = true
}

// SetIdentifier overwrites identifier[0..6] for an extension change.
func (r *ExtensionRegisters) SetIdentifier(id []byte) {
	copy(r.data[IdentifierOffset:IdentifierOffset+IdentifierSize], id)
}

func (r *ExtensionRegisters) encryptionEnabled() bool {
	return r.data[EncryptionOffset] == EncryptionEnabled
}

// Read implements extension_read_data: copies size bytes starting at addr,
// then if encryption is enabled, derives a fresh key (if dirty) and applies
// the stream cipher parameterised by addr.
func (r *ExtensionRegisters) Read(dst []byte, addr uint16, size uint16) error {
	if int(addr)+int(size) > ExtensionRegWindowSize {
		return fmt.Errorf("extension register read out of range: addr=%#x size=%d", addr, size)
	}
	copy(dst, r.data[addr:addr+size])
	if r.encryptionEnabled() {
		if r.keyDirty {
			r.key = GenerateKey(r.keyData())
			r.keyDirty = false
		}
		Encrypt(dst[:size], r.key, addr)
	}
	return nil
}

// Write implements extension_write_data: writes are never encrypted, but
// any write overlapping the key-data window marks the derived key dirty.
func (r *ExtensionRegisters) Write(src []byte, addr uint16, size uint16) error {
	if int(addr)+int(size) > ExtensionRegWindowSize {
		return fmt.Errorf("extension register write out of range: addr=%#x size=%d", addr, size)
	}
	if int(addr)+int(size) > EncryptionKeyDataBegin && int(addr) < EncryptionKeyDataEnd {
		r.keyDirty = true
	}
	copy(r.data[addr:addr+size], src[:size])
	return nil
}

// ControllerData exposes the controller-data sub-window for the input path
// to compare-and-write button/axis payloads into (used by
// Session.ReportInputExt to avoid marking input dirty on unchanged bytes).
func (r *ExtensionRegisters) ControllerData() []byte {
	return r.data[ControllerDataOffset : ControllerDataOffset+ControllerDataSize]
}

func (r *ExtensionRegisters) keyData() [16]byte {
	var seed [16]byte
	copy(seed[:], r.data[EncryptionKeyDataBegin:EncryptionKeyDataEnd])
	return seed
}
