package wiimote

// NunchukData is the 6-byte extension_data_format_nunchuk_t wire layout a
// Nunchuk reports through the extension register window's controller-data
// sub-window. Accelerometer bytes are left at their centered rest value
// since this module does not emulate motion.
type NunchukData struct {
	JX, JY       uint8
	C, Z         bool
}

// Marshal packs the fields into the 6-byte wire format: joystick x/y,
// centered accelerometer x/y/z, then a trailing byte whose low two bits
// carry the C/Z buttons inverted (0 means pressed, matching a real
// Nunchuk's active-low wiring) with the accelerometer low bits left at 0.
func (n NunchukData) Marshal() []byte {
	buf := make([]byte, 6)
	buf[0] = n.JX
	buf[1] = n.JY
	buf[2] = 0x80
	buf[3] = 0x80
	buf[4] = 0x80
	var bt uint8 = 0x03
	if n.C {
		bt &^= 0x02
	}
	if n.Z {
		bt &^= 0x01
	}
	buf[5] = bt
	return buf
}
