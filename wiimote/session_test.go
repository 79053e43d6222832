package wiimote

import (
	"testing"

	"github.com/Alia5/fakemote/bluetooth/hid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessExtensionChangeWritesIdentifierDisablesReportingAndAnnouncesStatus(t *testing.T) {
	s, backend := newReadySession(t)
	s.reportingMode = InputReportIDButtonsExt8
	s.SetExtension(ExtNunchuk)

	changed := s.processExtensionChange()
	assert.True(t, changed)
	assert.Equal(t, ExtNunchuk, s.curExtension)
	assert.Equal(t, ReportModeDisabled, s.reportingMode)

	var id [6]byte
	copy(id[:], s.extRegs.data[IdentifierOffset:IdentifierOffset+IdentifierSize])
	assert.Equal(t, [6]byte{0x00, 0x00, 0xa4, 0x20, 0x00, 0x00}, id)

	_, payload, ok := lastSendData(backend)
	require.True(t, ok)
	want := hid.WrapInputReport(InputReportIDStatus, StatusReport{Extension: true}.Marshal())
	assert.Equal(t, want, payload)

	// Nothing pending a second time: same extension, no-op.
	assert.False(t, s.processExtensionChange())
}

func TestTickRunsExtensionChangeBeforeDataReport(t *testing.T) {
	s, backend := newReadySession(t)
	s.reportingMode = InputReportIDButtons
	s.reportingContinuous = true
	s.SetExtension(ExtClassic)

	require.NoError(t, s.Tick())
	// The extension-change status report fires, pre-empting the data report
	// this tick; reporting is left disabled until the host re-enables it.
	assert.Equal(t, ReportModeDisabled, s.reportingMode)
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)
	assert.Equal(t, hid.WrapInputReport(InputReportIDStatus, StatusReport{Extension: true}.Marshal()), payload)
}

func TestSendDataReportSkippedWhenDisabledOrUnchanged(t *testing.T) {
	s, backend := newReadySession(t)
	s.reportingMode = ReportModeDisabled
	require.NoError(t, s.sendDataReport())
	_, _, ok := lastSendData(backend)
	assert.False(t, ok, "disabled reporting mode sends nothing")

	s.reportingMode = InputReportIDButtons
	s.reportingContinuous = false
	s.inputDirty = false
	require.NoError(t, s.sendDataReport())
	_, _, ok = lastSendData(backend)
	assert.False(t, ok, "non-continuous mode with no dirty input sends nothing")
}

func TestSendDataReportButtonsOnlyOnDirtyInput(t *testing.T) {
	s, backend := newReadySession(t)
	s.reportingMode = InputReportIDButtons
	s.ReportInput(ButtonA | ButtonB)

	require.NoError(t, s.sendDataReport())
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)

	buf := make([]byte, 2)
	buf[0] = byte(ButtonA | ButtonB)
	assert.Equal(t, hid.WrapInputReport(InputReportIDButtons, buf), payload)
	assert.False(t, s.inputDirty)
}

func TestSendDataReportContinuousIncludesExtensionWindow(t *testing.T) {
	s, backend := newReadySession(t)
	s.reportingMode = InputReportIDButtonsExt8
	s.reportingContinuous = true
	require.NoError(t, s.extRegs.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 0, 8))

	require.NoError(t, s.sendDataReport())
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)

	want := make([]byte, 10)
	copy(want[2:], []byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Equal(t, hid.WrapInputReport(InputReportIDButtonsExt8, want), payload)
}
