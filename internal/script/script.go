// Package script loads scripted ball outcomes from files.
package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/crease/internal/innings"
)

// LoadOutcomes reads whitespace-separated outcome tokens from the provided
// file path. Text after '#' on a line is ignored.
func LoadOutcomes(path string) ([]innings.Outcome, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only script.
			_ = cerr
		}
	}()
	return ReadOutcomes(file)
}

// ReadOutcomes parses outcome tokens from r. Errors name the offending line.
func ReadOutcomes(r io.Reader) ([]innings.Outcome, error) {
	var outcomes []innings.Outcome
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, token := range strings.Fields(line) {
			o, err := innings.ParseOutcome(token)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			outcomes = append(outcomes, o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("script is empty")
	}
	return outcomes, nil
}
