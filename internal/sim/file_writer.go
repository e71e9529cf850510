package sim

import (
	"encoding/json"
	"os"
	"sync"

	"electrolyzer-sim/internal/telemetry"
)

// FileWriter appends events to a JSONL capture file readable by ReplayLog.
type FileWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewFileWriter creates or truncates path.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{f: f, enc: json.NewEncoder(f)}, nil
}

// Write encodes one event per line.
func (w *FileWriter) Write(ev telemetry.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(ev)
}

// Close closes the capture file.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}
