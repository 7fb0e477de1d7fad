package psd

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/hellenic-development/psd-converter/pkg/layered"
)

// parseTypeTool extracts text metadata from a layer's type tool object
// setting ("TySh") block: a 2-byte version, the six big-endian float64s
// of the layer's 2D affine transform, then a versioned descriptor
// holding the text engine data.
//
// The descriptor is only scanned for the values the converter needs;
// anything the scan cannot locate is left at its zero value. The full
// descriptor grammar stays the external parser's business.
func parseTypeTool(b []byte) *layered.RawText {
	const transformOffset = 2
	const transformSize = 6 * 8

	if len(b) < transformOffset+transformSize {
		return nil
	}

	t := &layered.RawText{Transform: make([]float64, 6)}
	for i := range t.Transform {
		bits := binary.BigEndian.Uint64(b[transformOffset+i*8:])
		t.Transform[i] = math.Float64frombits(bits)
	}

	if s, ok := descriptorText(b[transformOffset+transformSize:], "Txt "); ok {
		t.Content = s
	}

	return t
}

// descriptorText locates a TEXT-typed descriptor entry by its 4-byte key
// and decodes its UTF-16BE payload.
func descriptorText(b []byte, key string) (string, bool) {
	i := bytes.Index(b, []byte(key))
	if i < 0 {
		return "", false
	}

	p := i + len(key)
	if len(b) < p+8 || string(b[p:p+4]) != "TEXT" {
		return "", false
	}
	n := int(binary.BigEndian.Uint32(b[p+4:]))
	p += 8
	if n < 0 || len(b) < p+n*2 {
		return "", false
	}

	units := make([]uint16, n)
	for j := range units {
		units[j] = binary.BigEndian.Uint16(b[p+2*j:])
	}
	s := string(utf16.Decode(units))
	// Photoshop terminates the string with a NUL and uses CR for line
	// breaks.
	s = strings.TrimRight(s, "\x00")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s, true
}
