// SPDX-License-Identifier: GPL-2.0-or-later

// Package crc implements the 16bit CCITT checksum the audit report records
// for every file.
package crc

const (
	ccittFalse = 0x1021
	initial    = 0xffff
)

type table [256]uint16

var ccittFalseTable = makeTable(ccittFalse)

func makeTable(poly uint16) *table {
	t := &table{}
	for i := uint16(0); i < 256; i++ {
		crc := i << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

// Digest computes the checksum of everything written to it.
type Digest struct {
	crc uint16
}

func New() *Digest {
	return &Digest{crc: initial}
}

func (d *Digest) Write(p []byte) (int, error) {
	for _, v := range p {
		d.crc = ccittFalseTable[byte(d.crc>>8)^v] ^ (d.crc << 8)
	}
	return len(p), nil
}

func (d *Digest) Sum16() uint16 {
	return d.crc
}

func (d *Digest) Reset() {
	d.crc = initial
}

// Checksum returns the CRC-16/CCITT-FALSE of p.
func Checksum(p []byte) uint16 {
	d := New()
	d.Write(p)
	return d.Sum16()
}
