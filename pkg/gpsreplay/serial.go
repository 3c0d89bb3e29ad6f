package gpsreplay

import (
	"io"

	serial "github.com/jacobsa/go-serial/serial"
)

// OpenSerial. open a serial GPS receiver (8N1) for NewReader
func OpenSerial(portName string, baudRate uint) (io.ReadWriteCloser, error) {
	return serial.Open(serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	})
}
