// Package audit writes the append-only text log of route changes and packet
// decisions. One line per event.
package audit

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Log is an append-only audit log
type Log struct {
	file  *os.File
	w     io.Writer
	mutex sync.Mutex
}

// Open opens path for appending, creating it if needed
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log %s: %w", path, err)
	}
	return &Log{file: f, w: f}, nil
}

// NewWriter returns a log that appends to w
func NewWriter(w io.Writer) *Log {
	return &Log{w: w}
}

// Discard returns a log that drops every record
func Discard() *Log {
	return &Log{w: io.Discard}
}

// RecordAdd logs a route addition using the arguments as typed
func (l *Log) RecordAdd(network, gateway string, metric int) error {
	return l.write(fmt.Sprintf("ADD %s via %s metric %d", network, gateway, metric))
}

// RecordDelete logs a delete command whether or not a route was removed
func (l *Log) RecordDelete(network string) error {
	return l.write("DEL " + network)
}

// RecordForward logs a forwarded packet
func (l *Log) RecordForward(packet, gateway string) error {
	return l.write(fmt.Sprintf("FWD %s via %s", packet, gateway))
}

// RecordDrop logs a dropped packet
func (l *Log) RecordDrop(packet string) error {
	return l.write("DROP " + packet)
}

func (l *Log) write(line string) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.file != nil {
		if err := lockFile(l.file); err != nil {
			return fmt.Errorf("failed to lock audit log: %w", err)
		}
		defer unlockFile(l.file)
	}

	if _, err := io.WriteString(l.w, line+"\n"); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// Close closes the underlying file, if any
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
