package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamErrorsWrapCorruptStream(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "header size", err: ErrInvalidHeaderSize},
		{name: "header flags", err: ErrInvalidHeaderFlags},
		{name: "checksum", err: ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, ErrCorruptStream)
		})
	}
}

func TestValidationErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrUnsupportedDimension,
		ErrInvalidType,
		ErrCorruptStream,
		ErrTypeMismatch,
		ErrAllocationFailure,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			require.False(t, errors.Is(a, b), "%v must not match %v", a, b)
		}
	}
}
