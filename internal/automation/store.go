// internal/automation/store.go
package automation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrTruncatedRecord reports that the source ended inside a record. Every
// complete record before it has been loaded.
var ErrTruncatedRecord = errors.New("automation: truncated schedule record")

// Load replaces the table with the records read from r. Reading stops at
// the first short read; a partial trailing record is dropped and reported
// as ErrTruncatedRecord, keeping the complete records before it. Records
// with an unknown step are kept as Unknown. On any other error the table
// is left as it was.
func (s *Scheduler) Load(r io.Reader) error {
	var (
		entries []Entry
		rec     [RecordSize]byte
	)
	for {
		n, err := io.ReadFull(r, rec[:])
		switch {
		case errors.Is(err, io.EOF):
			s.replace(entries)
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			s.replace(entries)
			s.log.Warn().
				Int("bytes", n).
				Int("loaded", len(entries)).
				Msg("schedule ends with a partial record")
			return fmt.Errorf("%w: %d of %d bytes", ErrTruncatedRecord, n, RecordSize)
		case err != nil:
			return fmt.Errorf("automation: load: %w", err)
		}

		e := decodeRecord(rec[:])
		if u, ok := e.Action.(Unknown); ok {
			s.log.Warn().
				Int("entry", len(entries)).
				Uint32("step", uint32(u.Tag)).
				Msg("schedule entry has an unknown step, it will not fire")
		}
		entries = append(entries, e)
	}
}

func (s *Scheduler) replace(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}

// Store writes every entry, in table order, as one record each.
func (s *Scheduler) Store(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bw := bufio.NewWriter(w)
	for i, e := range s.entries {
		rec, err := encodeRecord(e)
		if err != nil {
			return fmt.Errorf("automation: store record %d: %w", i, err)
		}
		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("automation: store: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("automation: store: %w", err)
	}
	return nil
}

// LoadFile loads the table from path. A missing file yields an empty table.
func (s *Scheduler) LoadFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s.Load(eofReader{})
	}
	if err != nil {
		return fmt.Errorf("automation: open schedule: %w", err)
	}
	defer f.Close()
	return s.Load(f)
}

// StoreFile replaces path atomically via a temporary file in the same
// directory.
func (s *Scheduler) StoreFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("automation: create schedule directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("automation: create schedule: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.Store(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("automation: write schedule: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("automation: replace schedule: %w", err)
	}
	return nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
