// SPDX-License-Identifier: GPL-2.0-or-later

package format

import (
	"testing"

	"github.com/pkg/errors"
)

func TestRange(t *testing.T) {
	b := make([]byte, 10)
	tests := []struct {
		off, n int
		ok     bool
	}{
		{0, 10, true},
		{10, 0, true},
		{4, 6, true},
		{4, 7, false},
		{11, 0, false},
		{-1, 2, false},
		{2, -1, false},
	}
	for _, tc := range tests {
		r, err := Range(b, tc.off, tc.n, "test")
		if tc.ok {
			if err != nil || len(r) != tc.n {
				t.Errorf("Range(%v,%v) = %v, %v, want %v bytes", tc.off, tc.n, len(r), err, tc.n)
			}
			continue
		}
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Range(%v,%v) error = %v, want ErrOutOfBounds", tc.off, tc.n, err)
		}
	}
}

type pair struct {
	A uint16
	B int32
}

func TestDecodeAllTruncates(t *testing.T) {
	b := []byte{1, 0, 2, 0, 0, 0, 3, 0, 0xff, 0xff, 0xff, 0xff, 9, 9}
	got, err := DecodeAll[pair](b, "pairs")
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	want := []pair{{1, 2}, {3, -1}}
	if len(got) != len(want) {
		t.Fatalf("DecodeAll len = %v, want %v", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DecodeAll[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReadArrayBounds(t *testing.T) {
	b := make([]byte, 12)
	if _, err := ReadArray[pair](b, 0, 2, "pairs"); err != nil {
		t.Errorf("ReadArray(0,2) = %v", err)
	}
	if _, err := ReadArray[pair](b, 6, 2, "pairs"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadArray(6,2) = %v, want ErrOutOfBounds", err)
	}
	if _, err := ReadArray[pair](b, 0, 1<<30, "pairs"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadArray(huge) = %v, want ErrOutOfBounds", err)
	}
}

func TestCString(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("AAATRIGGER\x00\x00\x00"), "AAATRIGGER"},
		{[]byte("{BLUE\x00junk"), "{BLUE"},
		{[]byte("full"), "full"},
		{[]byte{'c', 0xe9, 0}, "cé"},
	}
	for _, tc := range tests {
		if got := CString(tc.in); got != tc.want {
			t.Errorf("CString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInts(t *testing.T) {
	b := []byte{0xfe, 0xff, 0x01, 0x00, 0x00, 0x80}
	if v, err := Int16(b, 0, "i16"); err != nil || v != -2 {
		t.Errorf("Int16 = %v, %v, want -2", v, err)
	}
	if v, err := Uint32(b, 2, "u32"); err != nil || v != 0x80000001 {
		t.Errorf("Uint32 = %x, %v, want 80000001", v, err)
	}
	if _, err := Int32(b, 4, "i32"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Int32 past end = %v, want ErrOutOfBounds", err)
	}
}
