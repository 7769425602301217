package padding

import (
	"bytes"
	"errors"
	"testing"
)

const bs = 16

func TestPad(t *testing.T) {
	for n := 0; n <= 3*bs; n++ {
		data := bytes.Repeat([]byte{0xAA}, n)
		padded := Pad(data, bs)
		if len(padded)%bs != 0 {
			t.Fatalf("len %d: padded length %d not a multiple of %d", n, len(padded), bs)
		}
		pad := bs - n%bs
		if len(padded) != n+pad {
			t.Fatalf("len %d: padded length %d, want %d", n, len(padded), n+pad)
		}
		for _, b := range padded[n:] {
			if int(b) != pad {
				t.Fatalf("len %d: pad byte %d, want %d", n, b, pad)
			}
		}
		got, err := Unpad(padded, bs)
		if err != nil {
			t.Fatalf("len %d: Unpad failed: %v", n, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("len %d: Unpad = %x, want %x", n, got, data)
		}
	}
}

func TestPadEmpty(t *testing.T) {
	padded := Pad(nil, bs)
	if !bytes.Equal(padded, bytes.Repeat([]byte{0x10}, bs)) {
		t.Fatalf("Pad(nil) = %x, want 16 bytes of 0x10", padded)
	}
}

func TestPadDoesNotClobberInput(t *testing.T) {
	backing := []byte("0123456789abcdefXYZ")
	data := backing[:5]
	_ = Pad(data, bs)
	if string(backing) != "0123456789abcdefXYZ" {
		t.Fatalf("Pad wrote into the caller's backing array: %q", backing)
	}
}

func TestUnpadRejects(t *testing.T) {
	block := func(last byte, fill byte) []byte {
		b := bytes.Repeat([]byte{fill}, bs)
		b[bs-1] = last
		return b
	}
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not aligned", make([]byte, 15)},
		{"not aligned long", make([]byte, 17)},
		{"zero pad byte", block(0x00, 0x00)},
		{"pad byte too large", block(0x11, 0x11)},
		{"pad byte 0xff", block(0xff, 0xff)},
		{"inconsistent pad", append(bytes.Repeat([]byte{0x04}, bs-4), 0x04, 0x03, 0x04, 0x04)},
		{"one short", append(bytes.Repeat([]byte{0x00}, bs-3), 0x04, 0x04, 0x04)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unpad(tt.data, bs); !errors.Is(err, ErrInvalidPadding) {
				t.Fatalf("Unpad(%x) error = %v, want ErrInvalidPadding", tt.data, err)
			}
		})
	}
}

func TestUnpadFullBlock(t *testing.T) {
	data := append([]byte("exactly 16 bytes"), bytes.Repeat([]byte{0x10}, bs)...)
	got, err := Unpad(data, bs)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "exactly 16 bytes" {
		t.Fatalf("Unpad = %q", got)
	}
}
