package format_test

import (
	"testing"

	"github.com/ostafen/mbrscope/pkg/util/format"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	tests := map[uint64]string{
		0:                "0B",
		512:              "512B",
		1024:             "1KB",
		1536:             "1.50KB",
		2048 * 512:       "1MB",
		1572864:          "1.50MB",
		1 << 30:          "1GB",
		0xFFFFFFFF * 512: "2.00TB",
		3 * (1 << 40):    "3TB",
	}
	for in, expected := range tests {
		require.Equal(t, expected, format.FormatBytes(in), in)
	}
}
