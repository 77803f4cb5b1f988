// Package tracker defines Trackers, which record the metrics of each
// episode of an experiment and save them once the experiment is done
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Metrics summarizes a single training episode
type Metrics struct {
	Episode    int
	Steps      int
	Return     float64 // Undiscounted sum of rewards
	RewardToGo float64
	Advantage  float64
	Loss       float64 // Total loss
	CriticLoss float64
}

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished
type Tracker interface {
	Track(m Metrics)
	Save() error
}

// LoadData loads and returns the data saved by a gob encoding Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}
	return data, nil
}

// Filename returns base with suffix inserted before its extension, so
// that several series may be saved next to each other:
//
//	Filename("out/metrics.bin", "loss") == "out/metrics_loss.bin"
func Filename(base, suffix string) string {
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + suffix + ext
}
