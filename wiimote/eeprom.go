package wiimote

import "fmt"

// EEPROM is the user-addressable window of the emulated Wiimote's EEPROM,
// directly addressable by WRITE_DATA/READ_DATA output reports when
// space == AddressSpaceEEPROM.
type EEPROM struct {
	data [EEPROMFreeSize]byte
}

func (e *EEPROM) Read(dst []byte, addr uint16, size uint16) error {
	if int(addr)+int(size) > EEPROMFreeSize {
		return fmt.Errorf("eeprom read out of range: addr=%#x size=%d", addr, size)
	}
	copy(dst, e.data[addr:addr+size])
	return nil
}

func (e *EEPROM) Write(src []byte, addr uint16, size uint16) error {
	if int(addr)+int(size) > EEPROMFreeSize {
		return fmt.Errorf("eeprom write out of range: addr=%#x size=%d", addr, size)
	}
	copy(e.data[addr:addr+size], src[:size])
	return nil
}
