package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"tico-dataset/internal/core/types"
)

type DecodeStats struct {
	Lines     int
	Blank     int
	Malformed int
	Records   int
}

// Decode reads one JSON object per line. Blank lines are skipped quietly;
// lines that are not a valid JSON object are logged and skipped. Only read
// errors from r are returned.
func Decode(r io.Reader) ([]*types.Record, DecodeStats, error) {
	var (
		records []*types.Record
		stats   DecodeStats
	)

	reader := bufio.NewReader(r)
	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			stats.Lines++

			trimmed := bytes.TrimSpace(line)
			if len(trimmed) == 0 {
				stats.Blank++
			} else {
				rec := &types.Record{}
				if err := json.Unmarshal(trimmed, rec); err != nil {
					stats.Malformed++
					slog.Warn("skipping malformed JSON", "line", stats.Lines, "error", err)
				} else {
					records = append(records, rec)
				}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, stats, fmt.Errorf("error reading line %d: %w", stats.Lines+1, readErr)
		}
	}

	stats.Records = len(records)
	return records, stats, nil
}

// Encode writes each record as one compact JSON line. Non-ASCII characters
// and HTML-sensitive characters are left unescaped.
func Encode(w io.Writer, records []*types.Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("error encoding record %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error flushing records: %w", err)
	}
	return nil
}

func Marshal(records []*types.Record) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := Encode(buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
