// Package mounttab parses the kernel mount table (the /proc/mounts
// format) into Mount records.
//
// Parsing is strict: a line either matches the fixed six-field format
// exactly or is rejected whole, so a truncated or garbled table never
// yields a partial record.
package mounttab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

const procMountsPath = "/proc/mounts"

// Mounts reads a mount table one line at a time. It keeps no state
// beyond the current position, so iteration may stop at any point and
// resume later over the remaining lines. A Mounts must not be used
// from multiple goroutines.
type Mounts struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
	done    bool
}

// Open opens the kernel mount table at /proc/mounts.
func Open() (*Mounts, error) {
	return OpenFile(procMountsPath)
}

// OpenFile opens a mount table file in the /proc/mounts format. The
// returned Mounts owns the file; Close releases it.
func OpenFile(path string) (*Mounts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	m := New(f)
	m.closer = f
	return m, nil
}

// New reads a mount table from r. The caller keeps ownership of r;
// Close on the returned Mounts is a no-op.
func New(r io.Reader) *Mounts {
	return &Mounts{scanner: bufio.NewScanner(r)}
}

// Next reads and parses the next line of the table. It returns io.EOF
// once the table is exhausted. A line that does not match the format
// yields an error satisfying errors.Is(err, ErrParse) and reading
// continues with the following line on the next call. A read failure
// from the underlying source is returned once, wrapped, and ends the
// sequence.
func (m *Mounts) Next() (*Mount, error) {
	if m.done {
		return nil, io.EOF
	}
	if !m.scanner.Scan() {
		m.done = true
		if err := m.scanner.Err(); err != nil {
			return nil, fmt.Errorf("read mount table: %w", err)
		}
		return nil, io.EOF
	}
	m.line++
	mount, err := ParseLine(m.scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", m.line, err)
	}
	return mount, nil
}

// All consumes the table: it yields every remaining entry and closes
// the underlying file once iteration stops, whether it ran to the end
// or the caller broke out early. Each element is either a parsed entry
// or the error for that line.
func (m *Mounts) All() iter.Seq2[*Mount, error] {
	return func(yield func(*Mount, error) bool) {
		defer m.Close()
		m.iterate(yield)
	}
}

// Entries yields the remaining entries without taking ownership: the
// table stays open, and a later Entries (or Next) call picks up right
// after the last entry this one produced. It yields the same elements
// All would.
func (m *Mounts) Entries() iter.Seq2[*Mount, error] {
	return m.iterate
}

// iterate is the single next-line-then-parse loop behind both
// iteration modes.
func (m *Mounts) iterate(yield func(*Mount, error) bool) {
	for {
		mount, err := m.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if !yield(mount, err) {
			return
		}
	}
}

// Close releases the underlying file, if the Mounts owns one.
func (m *Mounts) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}
