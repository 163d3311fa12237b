package export

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// substitute replaces characters the report encoding cannot represent.
const substitute = '?'

// ToSingleByte converts UTF-8 text to Windows-1252, the encoding of the PDF
// core fonts. Unrepresentable characters become '?'.
func ToSingleByte(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte(substitute)
	}
	return b.String()
}
