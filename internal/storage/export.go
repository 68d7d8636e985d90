package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/secretgrid/internal/grid"
)

type ExportData struct {
	DecodeMetadata
	Lines []string `json:"lines"`
}

// Export writes a saved decode, metadata plus rendered lines, as indented JSON.
func (s *Store) Export(w io.Writer, id string) error {
	meta, g, err := s.LoadGrid(id)
	if err != nil {
		return err
	}

	data := ExportData{DecodeMetadata: *meta, Lines: g.Lines()}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// LoadGrid rebuilds a saved decode from its records with the origin it was
// saved with.
func (s *Store) LoadGrid(id string) (*DecodeMetadata, *grid.Grid, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.LoadRecords(id)
	if err != nil {
		return nil, nil, err
	}
	origin, err := grid.ParseOrigin(meta.Origin)
	if err != nil {
		return nil, nil, err
	}
	g, err := grid.Build(records, grid.WithOrigin(origin), grid.WithMaxCells(0))
	if err != nil {
		return nil, nil, err
	}
	return meta, g, nil
}
