package midi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	errVarLenTooLong = errors.New("variable length quantity longer than 4 bytes")
	errNotDataByte   = errors.New("status byte where a data byte was expected")
	errDataTooLong   = errors.New("event data runs past the end of the track chunk")
)

// add offset
func (d *Decoder) readByte() (byte, error) {
	var b byte
	err := binary.Read(d.r, binary.BigEndian, &b)
	if err == nil {
		d.offset += 1 // read byte
	}
	return b, err
}

func (d *Decoder) uint7() (uint8, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	if b&0x80 != 0 {
		return 0, fmt.Errorf("%w: %#x", errNotDataByte, b)
	}
	return b, nil
}

// VarLen returns the variable length value at the exact parser location.
func (d *Decoder) varLen() (val uint32, err error) {
	buf := make([]byte, 0, 4)
	var lastByte bool

	for !lastByte {
		if len(buf) == 4 {
			return 0, errVarLenTooLong
		}
		b, err := d.readByte()
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		buf = append(buf, b)
		lastByte = b>>7 == 0x0
	}

	val, _ = decodeVarint(buf)
	return val, nil
}

// varLenData reads a length-prefixed block, as used by meta and sysex events.
// The length may not run past the end of the current track chunk.
func (d *Decoder) varLenData() ([]byte, error) {
	l, err := d.varLen()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	if int64(l) > d.trackEnd-d.offset {
		return nil, fmt.Errorf("%w: %d bytes claimed, %d left", errDataTooLong, l, d.trackEnd-d.offset)
	}

	// the chunk size is not trusted either, the buffer grows with the data actually read
	var buf bytes.Buffer
	n, err := io.CopyN(&buf, d.r, int64(l))
	d.offset += n
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return buf.Bytes(), err
}

func (d *Decoder) skip(n int64) error {
	if n == 0 {
		return nil
	}
	copied, err := io.CopyN(io.Discard, d.r, n)
	d.offset += copied
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// IDnSize reads a chunk header. io.EOF means there is no further chunk.
func (d *Decoder) IDnSize() ([4]byte, uint32, error) {
	var ID [4]byte
	if err := d.read(&ID); err != nil {
		return ID, 0, err
	}

	var size uint32
	if err := d.read(&size); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return ID, 0, err
	}

	return ID, size, nil
}
