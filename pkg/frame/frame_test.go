package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestFrameUnframe(t *testing.T) {
	iv := bytes.Repeat([]byte{0x01}, IVSize)
	ct := bytes.Repeat([]byte{0x02}, 32)
	framed := Frame(iv, ct)
	if len(framed) != IVSize+len(ct) {
		t.Fatalf("framed length %d, want %d", len(framed), IVSize+len(ct))
	}
	gotIV, gotCT, err := Unframe(framed)
	if err != nil {
		t.Fatalf("Unframe failed: %v", err)
	}
	if !bytes.Equal(gotIV, iv) || !bytes.Equal(gotCT, ct) {
		t.Fatalf("Unframe = (%x, %x), want (%x, %x)", gotIV, gotCT, iv, ct)
	}
}

func TestUnframeTruncated(t *testing.T) {
	for _, n := range []int{0, 1, 10, 15} {
		if _, _, err := Unframe(make([]byte, n)); !errors.Is(err, ErrTruncatedInput) {
			t.Errorf("Unframe(len %d) error = %v, want ErrTruncatedInput", n, err)
		}
	}
}

func TestUnframeIVOnly(t *testing.T) {
	iv, ct, err := Unframe(make([]byte, IVSize))
	if err != nil {
		t.Fatalf("Unframe failed: %v", err)
	}
	if len(iv) != IVSize || len(ct) != 0 {
		t.Fatalf("Unframe = (%d, %d bytes), want (16, 0)", len(iv), len(ct))
	}
}

func TestUnframeIVDoesNotGrowIntoCiphertext(t *testing.T) {
	framed := Frame(make([]byte, IVSize), []byte("ciphertext bytes"))
	iv, ct, _ := Unframe(framed)
	_ = append(iv, 0xFF)
	if ct[0] != 'c' {
		t.Fatal("appending to the IV overwrote the ciphertext")
	}
}
