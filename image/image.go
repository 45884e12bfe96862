// SPDX-License-Identifier: GPL-2.0-or-later

// Package image writes decoded RGBA pixel data to disk.
package image

import (
	"bufio"
	"encoding/binary"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

func checkSize(data []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid image size %dx%d", width, height)
	}
	if len(data) < width*height*4 {
		return errors.Errorf("not enough data for a %dx%d image: %d bytes", width, height, len(data))
	}
	return nil
}

// EncodePNG expects RGBA 8bit data
func EncodePNG(w io.Writer, data []byte, width, height int) error {
	if err := checkSize(data, width, height); err != nil {
		return err
	}
	img := &image.NRGBA{
		Pix:    data[:width*height*4],
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
	return png.Encode(w, img)
}

type tgaHeader struct {
	IDLength       uint8
	ColormapType   uint8
	ImageType      uint8
	ColormapIndex  uint16
	ColormapLength uint16
	ColormapSize   uint8
	XOrigin        uint16
	YOrigin        uint16
	Width          uint16
	Height         uint16
	PixelSize      uint8
	Attributes     uint8
}

const (
	tgaTrueColor = 2
	tgaTopLeft   = 0x20
	tgaAlphaBits = 8
)

// EncodeTGA writes RGBA 8bit data as an uncompressed 32bit targa with a
// top left origin.
func EncodeTGA(w io.Writer, data []byte, width, height int) error {
	if err := checkSize(data, width, height); err != nil {
		return err
	}
	if width > 0xffff || height > 0xffff {
		return errors.Errorf("image too large for tga: %dx%d", width, height)
	}
	h := tgaHeader{
		ImageType:  tgaTrueColor,
		Width:      uint16(width),
		Height:     uint16(height),
		PixelSize:  32,
		Attributes: tgaTopLeft | tgaAlphaBits,
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return err
	}
	// targa stores BGRA
	px := make([]byte, 4)
	for p := 0; p < width*height; p++ {
		px[0] = data[p*4+2]
		px[1] = data[p*4+1]
		px[2] = data[p*4+0]
		px[3] = data[p*4+3]
		if _, err := bw.Write(px); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write creates the file name and encodes the RGBA data into it. Names
// ending in .tga are written as targa, everything else as png.
func Write(name string, data []byte, width, height int) (err error) {
	enc := EncodePNG
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		enc = EncodeTGA
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := enc(f, data, width, height); err != nil {
		return errors.Wrap(err, name)
	}
	return nil
}
