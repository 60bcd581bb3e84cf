package painting

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

const maxPackedSide = 32000

// PackedPixmap is a run-length encoded pixmap. Every row is a sequence of
// (count, pixel) runs terminated by a zero byte.
type PackedPixmap struct {
	Data      []byte
	Width     int
	Height    int
	PixFormat PixelFormat
}

// Save saves PackedPixmap
func (packedPixmap *PackedPixmap) Save(fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err = WritePackedPixmap(w, packedPixmap); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}

	return file.Sync()
}

// WritePackedPixmap writes the header and the packed rows
func WritePackedPixmap(w io.Writer, packedPixmap *PackedPixmap) error {
	header := []uint32{
		uint32(packedPixmap.PixFormat),
		uint32(packedPixmap.Width),
		uint32(packedPixmap.Height),
	}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	_, err := w.Write(packedPixmap.Data)
	return err
}

// Unpack unpacks PackedPixmap
func (packedPixmap *PackedPixmap) Unpack() (*Pixmap, error) {
	pixSize := GetPixelSize(packedPixmap.PixFormat)

	unpackedDataSize := packedPixmap.Width * packedPixmap.Height * pixSize
	unpackedData := make([]byte, 0, unpackedDataSize)

	rowCount := 0
	rowSize := 0
	for pos := 0; pos < len(packedPixmap.Data); {
		pixCount := int(packedPixmap.Data[pos])
		pos++
		if pixCount == 0 {
			// New row
			if rowSize != packedPixmap.Width {
				return nil, errors.New("Invalid data")
			}

			rowCount++
			rowSize = 0
			continue
		}
		if pos+pixSize > len(packedPixmap.Data) {
			return nil, errors.New("Invalid data")
		}
		pix := packedPixmap.Data[pos : pos+pixSize]
		for i := 0; i < pixCount; i++ {
			unpackedData = append(unpackedData, pix...)
		}

		rowSize += pixCount
		pos += pixSize
	}

	if rowCount != packedPixmap.Height {
		return nil, errors.New("Invalid data")
	}

	pixmap := &Pixmap{
		Data:        unpackedData,
		Width:       packedPixmap.Width,
		Height:      packedPixmap.Height,
		PixFormat:   packedPixmap.PixFormat,
		BytePerLine: packedPixmap.Width * pixSize,
	}
	return pixmap, nil
}

func u32ToPixFormat(val uint32) (PixelFormat, error) {
	switch val {
	case uint32(RGBA32):
		return RGBA32, nil
	case uint32(BGRA32):
		return BGRA32, nil
	default:
		return 0, errors.New("Unsupported PixelFormat")
	}
}

// LoadPackedPixmap loads a PackedPixmap from file
func LoadPackedPixmap(fileName string) (*PackedPixmap, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadPackedPixmap(bufio.NewReader(file))
}

// ReadPackedPixmap reads a PackedPixmap and validates its row structure
func ReadPackedPixmap(r io.Reader) (*PackedPixmap, error) {
	header := [3]uint32{}
	for i := 0; i < len(header); i++ {
		if err := binary.Read(r, binary.LittleEndian, &header[i]); err != nil {
			return nil, err
		}
	}
	pixFormat, err := u32ToPixFormat(header[0])
	if err != nil {
		return nil, err
	}
	width := int(header[1])
	if width < 0 || width > maxPackedSide {
		return nil, errors.New("Invalid width")
	}
	height := int(header[2])
	if height < 0 || height > maxPackedSide {
		return nil, errors.New("Invalid height")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if width*height > 0 && len(data) == 0 {
		return nil, errors.New("Invalid data")
	}

	pixSize := GetPixelSize(pixFormat)
	rowCount := 0
	rowSize := 0
	for pos := 0; pos < len(data); {
		pixCount := data[pos]
		if pixCount == 0 {
			// New row
			if rowSize != width {
				return nil, errors.New("Invalid data")
			}

			rowCount++
			rowSize = 0

			pos++
			continue
		}

		rowSize += int(pixCount)
		pos += 1 + pixSize
	}

	if rowCount != height {
		return nil, errors.New("Invalid data")
	}
	packedPixmap := &PackedPixmap{
		Data:      data,
		Width:     width,
		Height:    height,
		PixFormat: pixFormat,
	}
	return packedPixmap, nil
}

// PackPixmap packs Pixmap
func PackPixmap(pixmap *Pixmap) *PackedPixmap {
	packedPixmap := &PackedPixmap{
		Width:     pixmap.Width,
		Height:    pixmap.Height,
		PixFormat: pixmap.PixFormat,
	}

	pixSize := GetPixelSize(pixmap.PixFormat)
	for y := 0; y < pixmap.Height; y++ {
		rowOffset := pixmap.BytePerLine * y
		row := pixmap.Data[rowOffset : rowOffset+pixmap.Width*pixSize]

		for pixOffset := 0; pixOffset <= len(row)-pixSize; {
			packedPixel := row[pixOffset : pixOffset+pixSize]

			var eqPixCount byte = 1
			pixOffset += pixSize
			for pixOffset <= len(row)-pixSize && eqPixCount < 0xFF {
				if !bytes.Equal(packedPixel, row[pixOffset:pixOffset+pixSize]) {
					break
				}

				eqPixCount++
				pixOffset += pixSize
			}

			packedPixmap.Data = append(packedPixmap.Data, eqPixCount)
			packedPixmap.Data = append(packedPixmap.Data, packedPixel...)
		}
		packedPixmap.Data = append(packedPixmap.Data, 0x00) // New row
	}

	return packedPixmap
}
