package book

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Book file format. The header byte order is mixed on purpose: the magic
// is written big-endian and the version little-endian, and the consumer
// engine reads exactly that, so neither can be "fixed".
const (
	Magic   uint64 = 0x72626F6F6B696E67 // "rbooking"
	Version uint32 = 1

	HeaderSize = 12

	// RecordSize is the on-disk size of one entry. The 17 bytes of fields
	// are followed by zero padding up to this size; the consumer reads
	// 24-byte records.
	RecordSize      = 24
	recordFieldSize = 17
)

// Write serializes the table: a header followed by one fixed-size record
// per entry, in the table's iteration order. It returns the number of
// records written.
func Write(w io.Writer, t Table) (int, error) {
	var header [HeaderSize]byte
	binary.BigEndian.PutUint64(header[0:8], Magic)
	binary.LittleEndian.PutUint32(header[8:12], Version)
	if _, err := w.Write(header[:]); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	count := 0
	var rec [RecordSize]byte
	err := t.ForEach(func(e Entry) error {
		encodeRecord(&rec, e)
		if _, err := w.Write(rec[:]); err != nil {
			return fmt.Errorf("write record %d: %w", count, err)
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

func encodeRecord(buf *[RecordSize]byte, e Entry) {
	binary.LittleEndian.PutUint64(buf[0:8], e.Hash)
	buf[8] = e.Move.From
	buf[9] = e.Move.To
	buf[10] = e.Move.Promotion
	buf[11] = e.Move.Type
	buf[12] = e.Move.Piece
	binary.LittleEndian.PutUint16(buf[13:15], e.Weight)
	binary.LittleEndian.PutUint16(buf[15:recordFieldSize], 0) // learn, reserved
	for i := recordFieldSize; i < RecordSize; i++ {
		buf[i] = 0
	}
}

// WriteFile writes the table to path. A ".zst" suffix (or compress=true)
// wraps the output in a zstd stream; the book reader undoes it
// transparently. A failed write leaves the file unusable; callers should
// discard it.
func WriteFile(path string, t Table, compress bool) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create book file: %w", err)
	}

	var (
		count    int
		writeErr error
	)
	if compress || strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return 0, err
		}
		count, writeErr = Write(enc, t)
		if err := enc.Close(); writeErr == nil {
			writeErr = err
		}
	} else {
		bw := bufio.NewWriter(f)
		count, writeErr = Write(bw, t)
		if err := bw.Flush(); writeErr == nil {
			writeErr = err
		}
	}

	if err := f.Close(); writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		return count, writeErr
	}
	return count, nil
}
