package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// ErrNoStreams is returned when the stream list holds no address
var ErrNoStreams = errors.New("no stream addresses configured")

// LoadStreams reads one stream address per line from path.
// Lines are trimmed, blank lines skipped and file order kept.
func LoadStreams(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream list: %w", err)
	}
	defer f.Close()

	streams, err := ParseStreams(f)
	if err != nil {
		return nil, fmt.Errorf("stream list %s: %w", path, err)
	}
	return streams, nil
}

// ParseStreams is LoadStreams on an already open reader
func ParseStreams(r io.Reader) ([]string, error) {
	var streams []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			streams = append(streams, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, ErrNoStreams
	}
	return streams, nil
}
