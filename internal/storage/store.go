package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/secretgrid/internal/grid"
)

const (
	metadataFile = "metadata.json"
	recordsFile  = "records.csv"
	messageFile  = "message.txt"
)

// ErrNotFound indicates no saved decode exists under the given id.
var ErrNotFound = errors.New("storage: decode not found")

type Store struct {
	baseDir string
	now     func() time.Time
	create  func(string) (*os.File, error)
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now, create: os.Create}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type DecodeMetadata struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Origin    string    `json:"origin"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Records   int       `json:"records"`
}

// Save archives a decode: its metadata, the records it was built from, and
// the rendered text. A failed save leaves no directory behind.
func (s *Store) Save(src string, records []grid.Record, g *grid.Grid) (id string, err error) {
	ts := s.now()
	id, err = s.nextID(ts)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
			id = ""
		}
	}()

	meta := DecodeMetadata{
		ID:        id,
		Source:    src,
		Timestamp: ts,
		Origin:    g.Origin().String(),
		Width:     g.Width(),
		Height:    g.Height(),
		Records:   len(records),
	}
	if err := s.writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := s.writeRecords(filepath.Join(dir, recordsFile), records); err != nil {
		return "", err
	}

	msg, err := s.create(filepath.Join(dir, messageFile))
	if err != nil {
		return "", err
	}
	defer msg.Close()
	if _, err := g.WriteTo(msg); err != nil {
		return "", err
	}
	if err := msg.Close(); err != nil {
		return "", err
	}
	return id, nil
}

// nextID derives an id from the timestamp, adding a suffix when two decodes
// land in the same second.
func (s *Store) nextID(ts time.Time) (string, error) {
	base := fmt.Sprintf("decode_%d", ts.Unix())
	id := base
	for n := 1; ; n++ {
		_, err := os.Stat(filepath.Join(s.baseDir, id))
		if os.IsNotExist(err) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

func (s *Store) writeJSON(path string, v any) error {
	f, err := s.create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func (s *Store) writeRecords(path string, records []grid.Record) error {
	f, err := s.create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "char"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write([]string{strconv.Itoa(r.X), strconv.Itoa(r.Y), r.Char}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns every saved decode, oldest first. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]DecodeMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DecodeMetadata{}, nil
		}
		return nil, err
	}

	decodes := make([]DecodeMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		decodes = append(decodes, *meta)
	}

	sort.SliceStable(decodes, func(i, j int) bool {
		return decodes[i].Timestamp.Before(decodes[j].Timestamp)
	})
	return decodes, nil
}

func (s *Store) Load(id string) (*DecodeMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta DecodeMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecords reads the records a decode was built from. Each row is
// revalidated.
func (s *Store) LoadRecords(id string) ([]grid.Record, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, recordsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []grid.Record{}, nil
	}

	raws := make([]grid.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raws = append(raws, grid.RawRecord{X: row[0], Y: row[1], Char: row[2]})
	}
	return grid.ParseRecords(raws)
}

func (s *Store) LoadMessage(id string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, messageFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", err
	}
	return string(data), nil
}
