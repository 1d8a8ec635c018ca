package section

const (
	// Bit masks of the options field
	ChecksumMask     = 0x0001 // Mask for checksum bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicDCTZV1Opt is the magic number of the version 1 stream format.
	MagicDCTZV1Opt = 0xDC10

	// FormatVersion is the stream format version written by this package.
	FormatVersion = 1
)

// offset and section sizes in the stream
const (
	FixedHeaderSize = 48 // header size without dimensions
	DimSize         = 8  // bytes per dimension entry
	MaxRank         = 3
)
