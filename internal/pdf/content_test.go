package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamText(t *testing.T) {
	stream := "BT\n/F1 10 Tf\n72 720 Td\n(Delivery Number) Tj\n120 0 Td\n(80012345) Tj\n0 -14 Td\n[(Bat) -20 (ch)] TJ\nT*\n(Olam Reference 12\\(A\\)) Tj\n(next line) '\nET\n"

	assert.Equal(t, "Delivery Number 80012345\nBatch\nOlam Reference 12(A)\nnext line", streamText([]byte(stream)))
}

func TestStreamText_CRLF(t *testing.T) {
	assert.Equal(t, "a\nb", streamText([]byte("BT\r\n(a) Tj\r\nT*\r\n(b) Tj\r\nET")))
}

func TestDecodePDFString(t *testing.T) {
	tests := map[string]string{
		`plain`:         "plain",
		`a\(b\)`:        "a(b)",
		`tab\there`:     "tab\there",
		`sp\040ace`:     "sp ace",
		`back\\slash`:   `back\slash`,
		`trailing\`:     `trailing\`,
		`\q`:            "q",
		`oct\7end`:      "oct\x07end",
	}
	for in, want := range tests {
		assert.Equal(t, want, decodePDFString([]byte(in)), in)
	}
}

func TestVerticalMove(t *testing.T) {
	assert.True(t, verticalMove([]byte("0 -14 Td")))
	assert.False(t, verticalMove([]byte("120 0 Td")))
	assert.False(t, verticalMove([]byte("Td")))
}
