package ioenrich

import (
	"os"
	"sync"

	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/gnames/gnfmt"
)

// missLog appends misses as JSON lines to a file. Safe for use by
// concurrent workers.
type missLog struct {
	mu   sync.Mutex
	file *os.File
	enc  gnfmt.GNjson
}

// NewMissLog opens (or creates) the miss log at path for appending.
func NewMissLog(path string) (enrich.MissSink, error) {
	file, err := os.OpenFile(
		path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, MissLogError(path, err)
	}
	return &missLog{file: file}, nil
}

func (l *missLog) Record(m enrich.Miss) error {
	line, err := l.enc.Encode(m)
	if err != nil {
		return MissLogError(l.file.Name(), err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err = l.file.Write(append(line, '\n')); err != nil {
		return MissLogError(l.file.Name(), err)
	}
	return nil
}

func (l *missLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
