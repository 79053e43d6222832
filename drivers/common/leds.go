// Package common holds behaviour shared by more than one vendor driver,
// such as the slot-to-colour mapping used for LED/rumble feedback.
package common

// slotColors mirrors the five-entry colour table vendor drivers use to
// give each emulated Wiimote slot a distinct LED/lightbar colour.
var slotColors = [5][3]byte{
	{0, 0, 0},
	{0, 0, 255},
	{255, 0, 0},
	{0, 255, 0},
	{255, 0, 255},
}

// SlotColor returns the RGB colour assigned to a controller slot, cycling
// through all five entries of the table.
func SlotColor(slot int) [3]byte {
	return slotColors[slot%len(slotColors)]
}
