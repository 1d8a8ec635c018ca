package section

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dctz/errs"
)

func TestFlag(t *testing.T) {
	f := NewFlag()
	require.Equal(t, uint16(MagicDCTZV1Opt), f.GetMagicNumber())
	require.False(t, f.IsBigEndian())
	require.False(t, f.HasChecksum())
	require.Equal(t, binary.LittleEndian, f.GetEndianEngine())
	require.NoError(t, f.Validate())

	f.WithBigEndian()
	f.SetChecksum(true)
	require.True(t, f.IsBigEndian())
	require.True(t, f.HasChecksum())
	require.Equal(t, binary.BigEndian, f.GetEndianEngine())
	require.Equal(t, uint16(MagicDCTZV1Opt), f.GetMagicNumber(), "flag bits leave the magic alone")
	require.NoError(t, f.Validate())

	f.SetChecksum(false)
	require.Equal(t, NewFlag().Options|EndiannessMask, f.Options)
}

func TestFlag_Validate(t *testing.T) {
	tests := []struct {
		name    string
		options uint16
		wantErr bool
	}{
		{"v1", MagicDCTZV1Opt, false},
		{"v1 all flags", MagicDCTZV1Opt | ChecksumMask | EndiannessMask, false},
		{"zero", 0, true},
		{"other magic", 0xEA10, true},
		{"reserved bit 2", MagicDCTZV1Opt | 0x0004, true},
		{"reserved bit 3", MagicDCTZV1Opt | 0x0008, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Flag{Options: tt.options}.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
