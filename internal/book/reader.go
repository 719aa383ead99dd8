package book

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

var (
	ErrBadMagic   = errors.New("book: bad magic")
	ErrBadVersion = errors.New("book: unsupported version")
)

// ReadHeader consumes and validates the 12-byte header.
func ReadHeader(r io.Reader) error {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if binary.BigEndian.Uint64(header[0:8]) != Magic {
		return ErrBadMagic
	}
	if v := binary.LittleEndian.Uint32(header[8:12]); v != Version {
		return fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	return nil
}

// Read parses a book stream, calling fn for each record in file order, and
// returns the number of records read.
func Read(r io.Reader, fn func(Entry) error) (int, error) {
	if err := ReadHeader(r); err != nil {
		return 0, err
	}

	count := 0
	var rec [RecordSize]byte
	for {
		_, err := io.ReadFull(r, rec[:])
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("read record %d: %w", count, err)
		}

		e := Entry{
			Hash: binary.LittleEndian.Uint64(rec[0:8]),
			Move: MoveKey{
				From:      rec[8],
				To:        rec[9],
				Promotion: rec[10],
				Type:      rec[11],
				Piece:     rec[12],
			},
			Weight: binary.LittleEndian.Uint16(rec[13:15]),
		}
		if err := fn(e); err != nil {
			return count, err
		}
		count++
	}
}

// ReadFile reads a book from disk, decompressing ".zst" files.
func ReadFile(path string, fn func(Entry) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open book file: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return 0, err
		}
		defer dec.Close()
		return Read(dec, fn)
	}
	return Read(bufio.NewReader(f), fn)
}
