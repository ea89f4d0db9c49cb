// internal/automation/store_test.go
package automation

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{Cron: Cron{Minute: 30, Hour: 8, Day: Wildcard, Month: Wildcard, Weekday: Wildcard}, Action: Limits{Voltage: 1200, Current: 500}},
		{Cron: Cron{Minute: 15, Hour: 18, Weekday: 2}, Action: OnOff{On: false}},
		{Cron: Cron{Day: 1, Month: 1}, Action: OnOff{On: true}},
		{Cron: Cron{Minute: -1, Hour: 23, Day: 0, Month: 0, Weekday: 0}, Action: Limits{Voltage: 0, Current: 4999}},
	}
}

func newTestScheduler(t *testing.T, entries ...Entry) *Scheduler {
	t.Helper()
	s, err := New(&recordingDevice{}, Options{})
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, s.AddEntry(e))
	}
	return s
}

func TestStoreLoadRoundTrip(t *testing.T) {
	all := sampleEntries()
	for _, n := range []int{0, 1, len(all)} {
		src := newTestScheduler(t, all[:n]...)

		var buf bytes.Buffer
		require.NoError(t, src.Store(&buf))
		require.Equal(t, n*RecordSize, buf.Len())
		stored := append([]byte(nil), buf.Bytes()...)

		dst := newTestScheduler(t)
		require.NoError(t, dst.Load(bytes.NewReader(stored)))
		require.Equal(t, src.Entries(), dst.Entries())

		var again bytes.Buffer
		require.NoError(t, dst.Store(&again))
		require.Equal(t, stored, again.Bytes())
	}
}

func TestLoadClearsTable(t *testing.T) {
	s := newTestScheduler(t, sampleEntries()...)
	require.NoError(t, s.Load(bytes.NewReader(nil)))
	require.Empty(t, s.Entries())
}

func TestLoadStopsAtTruncatedRecord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestScheduler(t, sampleEntries()[:2]...).Store(&buf))
	data := buf.Bytes()[:RecordSize+RecordSize/2]

	s := newTestScheduler(t)
	err := s.Load(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrTruncatedRecord)
	require.Equal(t, sampleEntries()[:1], s.Entries())
}

func TestLoadKeepsRecordsWithUnknownStep(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestScheduler(t, sampleEntries()...).Store(&buf))
	data := append([]byte(nil), buf.Bytes()...)
	data[offStep] = 2

	s := newTestScheduler(t)
	require.NoError(t, s.Load(bytes.NewReader(data)))

	got := s.Entries()
	require.Len(t, got, len(sampleEntries()))
	require.IsType(t, Unknown{}, got[0].Action)
	require.Equal(t, StepType(2), got[0].Action.Step())
	require.Equal(t, sampleEntries()[1:], got[1:])

	var again bytes.Buffer
	require.NoError(t, s.Store(&again))
	require.Equal(t, data, again.Bytes())
}

// failingReader serves data, then fails.
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(b []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(b, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestLoadErrorKeepsPreviousTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestScheduler(t, sampleEntries()[:2]...).Store(&buf))

	s := newTestScheduler(t, sampleEntries()...)
	mediaErr := errors.New("media error")
	err := s.Load(&failingReader{data: buf.Bytes()[:RecordSize+3], err: mediaErr})

	require.ErrorIs(t, err, mediaErr)
	require.Equal(t, sampleEntries(), s.Entries())
}

func TestStoreFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "schedule.bin")

	src := newTestScheduler(t, sampleEntries()...)
	require.NoError(t, src.StoreFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(len(sampleEntries())*RecordSize), info.Size())

	dst := newTestScheduler(t)
	require.NoError(t, dst.LoadFile(path))
	require.Equal(t, sampleEntries(), dst.Entries())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestLoadFileMissingGivesEmptyTable(t *testing.T) {
	s := newTestScheduler(t, sampleEntries()...)
	require.NoError(t, s.LoadFile(filepath.Join(t.TempDir(), "absent.bin")))
	require.Empty(t, s.Entries())
}
