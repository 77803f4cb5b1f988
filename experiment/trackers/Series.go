package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/goppo/experiment/tracker"
)

// Series tracks a single Field of the episodic metrics of an
// experiment and saves it as a gob encoded []float64, which can be
// read back with tracker.LoadData.
type Series struct {
	series
	filename string
}

// NewSeries creates and returns a new *Series Tracker saving field to
// filename
func NewSeries(field Field, filename string) *Series {
	return &Series{newSeries([]Field{field}), filename}
}

// Track records the Field of m
func (s *Series) Track(m tracker.Metrics) {
	s.track(m)
}

// Data returns the values tracked so far
func (s *Series) Data() []float64 {
	return append([]float64(nil), s.values[0]...)
}

// Save saves the data tracked by the Series to disk
func (s *Series) Save() (err error) {
	file, err := os.Create(s.filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("save: could not close save file: %w", closeErr)
		}
	}()

	if err := gob.NewEncoder(file).Encode(s.values[0]); err != nil {
		return fmt.Errorf("save: could not encode %v data: %w",
			s.fields[0].Name, err)
	}
	return nil
}
