// Package hexdump renders byte slices in the classic offset/hex/ASCII layout.
package hexdump

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const bytesPerLine = 16

// Fprint writes data to w, numbering lines from addr.
func Fprint(w io.Writer, addr uint, data []byte) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < len(data); i += bytesPerLine {
		line := data[i:min(i+bytesPerLine, len(data))]
		fmt.Fprintf(bw, "%08x  ", addr+uint(i))
		for j := 0; j < bytesPerLine; j++ {
			if j < len(line) {
				fmt.Fprintf(bw, "%02x ", line[j])
			} else {
				bw.WriteString("   ")
			}
			if j == 7 {
				bw.WriteByte(' ')
			}
		}
		bw.WriteString(" |")
		for _, b := range line {
			if b >= 0x20 && b < 0x7f {
				bw.WriteByte(b)
			} else {
				bw.WriteByte('.')
			}
		}
		bw.WriteString("|\n")
	}
	return bw.Flush()
}

// String is Fprint into a string.
func String(addr uint, data []byte) string {
	var sb strings.Builder
	Fprint(&sb, addr, data)
	return sb.String()
}
