package section

import (
	"fmt"

	"github.com/arloliu/dctz/endian"
	"github.com/arloliu/dctz/errs"
)

// Flag is the packed options field at the start of the header.
type Flag struct {
	// Options packs the checksum bit (0), the endianness bit (1) and the
	// magic number (bits 4-15). Bits 2-3 are reserved and must be 0.
	Options uint16
}

// NewFlag returns a little-endian flag without checksum.
func NewFlag() Flag {
	return Flag{Options: MagicDCTZV1Opt}
}

// HasChecksum returns whether the record section checksum is set.
func (f Flag) HasChecksum() bool {
	return (f.Options & ChecksumMask) != 0
}

// SetChecksum enables or disables the record section checksum.
func (f *Flag) SetChecksum(enabled bool) {
	if enabled {
		f.Options |= ChecksumMask
	} else {
		f.Options &^= ChecksumMask
	}
}

// IsBigEndian returns whether the stream is big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number bits.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Validate checks the magic number and reserved bits.
func (f Flag) Validate() error {
	if f.GetMagicNumber() != MagicDCTZV1Opt {
		return fmt.Errorf("%w: magic number %#04x", errs.ErrInvalidHeaderFlags, f.GetMagicNumber())
	}
	if f.Options&ReservedBitsMask != 0 {
		return fmt.Errorf("%w: reserved bits set", errs.ErrInvalidHeaderFlags)
	}

	return nil
}
