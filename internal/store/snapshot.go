package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/i474232898/district-weather/internal/districts"
	"github.com/i474232898/district-weather/internal/metrics"
	"github.com/i474232898/district-weather/internal/weather"
)

// FileStore reads and writes weather snapshot files.
// Writes are serialized and atomic: readers never see a half-written file.
type FileStore struct {
	mu sync.RWMutex

	fs      afero.Fs
	logger  zerolog.Logger
	metrics *metrics.Metrics
	shuffle func([]*weather.Info)
}

// NewFileStore creates a FileStore on top of fs. A nil logger disables logging.
func NewFileStore(fs afero.Fs, logger *zerolog.Logger, m *metrics.Metrics) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "store").Logger()
	}
	return &FileStore{
		fs:      fs,
		logger:  l,
		metrics: m,
		shuffle: func(list []*weather.Info) {
			rand.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
		},
	}
}

// Read parses the snapshot at path.
func (s *FileStore) Read(path string) (weather.Snapshot, error) {
	var snap weather.Snapshot

	content, _, err := s.readDocument(path)
	if err != nil {
		return snap, err
	}

	if err := json.Unmarshal(content, &snap); err != nil {
		return weather.Snapshot{}, newLoadError(ErrParsingError, path, err)
	}
	if snap.Data == nil {
		snap.Data = weather.Records{}
	}
	return snap, nil
}

// readDocument loads path and checks that it is a JSON object with a data section.
// A JSON list parses but never has one.
func (s *FileStore) readDocument(path string) ([]byte, map[string]json.RawMessage, error) {
	if path == "" {
		return nil, nil, newLoadError(ErrSourceNotDefined, path, nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, nil, newLoadError(ErrSourceNotReadable, path, err)
	}
	defer func() { _ = f.Close() }()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		return nil, nil, newLoadError(ErrSourceNotReadable, path, fmt.Errorf("%s is a directory", path))
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, newLoadError(ErrReadingError, path, err)
	}

	if !json.Valid(content) {
		return nil, nil, newLoadError(ErrParsingError, path, errors.New("invalid JSON"))
	}

	trimmed := bytes.TrimSpace(content)
	switch trimmed[0] {
	case '[':
		return nil, nil, newLoadError(ErrMissingDataSection, path, nil)
	case '{':
	default:
		return nil, nil, newLoadError(ErrParsingError, path, errors.New("top level is not an object"))
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, nil, newLoadError(ErrParsingError, path, err)
	}
	if _, ok := top["data"]; !ok {
		return nil, nil, newLoadError(ErrMissingDataSection, path, nil)
	}
	return content, top, nil
}

// LoadLocal returns the cached weather for a district and its neighbours.
//
// District 0 yields every entry of the data section in random order. Any other
// id yields the district's own record followed by one entry per adjacent
// district; entries missing from the file are nil. Failures are logged and
// returned together with whatever was loaded: an unknown district id returns
// the unfiltered data in file order.
func (s *FileStore) LoadLocal(districtID int, path string) ([]*weather.Info, error) {
	_, doc, err := s.readDocument(path)
	if err != nil {
		s.fail(err)
		return []*weather.Info{}, err
	}

	var all weather.RecordList
	if err := json.Unmarshal(doc["data"], &all); err != nil {
		loadErr := newLoadError(ErrParsingError, path, err)
		s.fail(loadErr)
		return []*weather.Info{}, loadErr
	}

	if districtID == districts.CenterID {
		s.shuffle(all)
		s.metrics.IncrementCounter(metrics.SnapshotLoads, "ok")
		return all, nil
	}

	pid, ok := districts.ProviderID(districts.GroupRegion, districtID)
	if !ok {
		err := newLoadError(ErrUnknownDistrictID, path, fmt.Errorf("district id %d does not exist in the region table", districtID))
		s.fail(err)
		return all, err
	}

	adjacent := districts.Adjacent(districtID)
	local := make([]*weather.Info, 0, 1+len(adjacent))
	local = append(local, all.FindByID(pid))

	for _, adj := range adjacent {
		adjPID, _ := districts.ProviderID(districts.GroupRegion, adj)
		local = append(local, all.FindByID(adjPID))
	}

	s.metrics.IncrementCounter(metrics.SnapshotLoads, "ok")
	return local, nil
}

// Save writes the snapshot to path, replacing any previous file.
func (s *FileStore) Save(path string, snap weather.Snapshot) error {
	if path == "" {
		return newLoadError(ErrSourceNotDefined, path, nil)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(snap); err != nil {
		s.metrics.IncrementCounter(metrics.SnapshotWrites, "error")
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAtomic(path, buf.Bytes()); err != nil {
		s.metrics.IncrementCounter(metrics.SnapshotWrites, "error")
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write weather snapshot")
		return err
	}

	s.metrics.IncrementCounter(metrics.SnapshotWrites, "success")
	s.metrics.SetGauge(metrics.SnapshotUpdateTimestamp, float64(snap.UpdateTS))
	s.logger.Info().Str("path", path).Int("districts", len(snap.Data)).Msg("weather snapshot saved")
	return nil
}

func (s *FileStore) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".weather-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) fail(err error) {
	code := "unknown"
	if le, ok := err.(*LoadError); ok {
		code = le.Code.String()
	}
	s.metrics.IncrementCounter(metrics.SnapshotLoads, code)
	s.logger.Error().Str("code", code).Err(err).Msg("[ERROR] Load Weather")
}

func newLoadError(kind *LoadError, path string, cause error) *LoadError {
	return &LoadError{
		Code:    kind.Code,
		Path:    path,
		Message: kind.Message,
		Err:     cause,
	}
}
