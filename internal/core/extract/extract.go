package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tico-dataset/internal/core/types"
)

const separator = "::"

var terminalPunctuation = []string{".", "!", "?", "…"}

type Entry struct {
	Term        string
	Explanation string
}

type Stats struct {
	LinesRead      int
	RecordsWritten int
	Skipped        int
}

// ParseLine splits "term::explanation" on the first separator. Empty lines,
// lines without a separator and lines with an empty side are rejected.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}

	term, explanation, found := strings.Cut(line, separator)
	if !found {
		return Entry{}, false
	}

	term = strings.TrimSpace(term)
	explanation = strings.TrimSpace(explanation)
	if term == "" || explanation == "" {
		return Entry{}, false
	}

	return Entry{Term: term, Explanation: NormalizeExplanation(explanation)}, true
}

func NormalizeExplanation(text string) string {
	text = strings.TrimSpace(text)
	for _, p := range terminalPunctuation {
		if strings.HasSuffix(text, p) {
			return text
		}
	}
	return text + "."
}

func Convert(r io.Reader, format *Format) ([]*types.Record, Stats, error) {
	var (
		records []*types.Record
		stats   Stats
	)

	reader := bufio.NewReader(r)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			stats.LinesRead++

			if entry, ok := ParseLine(line); ok {
				rec, err := format.Render(entry)
				if err != nil {
					return nil, stats, fmt.Errorf("error rendering line %d: %w", stats.LinesRead, err)
				}
				records = append(records, rec)
			} else {
				stats.Skipped++
				slog.Debug("skipping line", "line", stats.LinesRead)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, stats, fmt.Errorf("error reading line %d: %w", stats.LinesRead+1, readErr)
		}
	}

	stats.RecordsWritten = len(records)
	return records, stats, nil
}
