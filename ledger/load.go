package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// ErrUnavailable is returned when the ledger file cannot be opened or read.
var ErrUnavailable = errors.New("ledger unavailable")

// ParseLine parses one ledger line of the form
//
//	account other amount mode
//
// The returned entry has no ID; ok is false for any line that is not exactly
// four integer fields, has an unknown mode or a negative amount.
func ParseLine(line string) (e Entry, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Entry{}, false
	}

	acc, err := strconv.Atoi(fields[0])
	if err != nil {
		return Entry{}, false
	}
	other, err := strconv.Atoi(fields[1])
	if err != nil {
		return Entry{}, false
	}
	amount, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || amount < 0 {
		return Entry{}, false
	}
	mode, err := strconv.Atoi(fields[3])
	if err != nil || !Mode(mode).Valid() {
		return Entry{}, false
	}

	return Entry{
		Account: acc,
		Other:   other,
		Amount:  amount,
		Mode:    Mode(mode),
	}, true
}

// maxLineLen bounds a ledger line. Longer lines cannot be well formed and
// are skipped like any other malformed line.
const maxLineLen = 64 * 1024

// Read parses every well-formed line of r in order. Malformed lines,
// including lines longer than maxLineLen, are skipped and do not consume an
// ID.
func Read(r io.Reader) ([]Entry, error) {
	br := bufio.NewReaderSize(r, maxLineLen)

	var (
		out  []Entry
		next ID
	)
	for {
		line, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if isPrefix {
			if err := skipLine(br); err != nil {
				if err == io.EOF {
					return out, nil
				}
				return nil, err
			}
			continue
		}

		e, ok := ParseLine(string(line))
		if !ok {
			continue
		}
		e.ID = next
		next++
		out = append(out, e)
	}
}

// skipLine discards the rest of an overlong line.
func skipLine(br *bufio.Reader) error {
	for {
		_, isPrefix, err := br.ReadLine()
		if err != nil {
			return err
		}
		if !isPrefix {
			return nil
		}
	}
}

// Load opens the ledger file at path and parses it. Files ending in .xz or
// .lzma are decompressed on the fly.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: xz %s: %w", ErrUnavailable, path, err)
		}
		r = xr
	case ".lzma":
		lr, err := lzma.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: lzma %s: %w", ErrUnavailable, path, err)
		}
		r = lr
	}

	entries, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrUnavailable, path, err)
	}
	return entries, nil
}
