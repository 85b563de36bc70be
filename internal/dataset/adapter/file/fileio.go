package file

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dataprep/internal/dataset/domain/model"
	"dataprep/internal/shared/errors"
)

// Dataset file formats.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// DetectFormat infers the format from a file extension, defaulting to jsonl.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".jsonl", ".ndjson":
		return FormatJSONL
	default:
		return FormatJSONL
	}
}

// ReadRecords reads a dataset file in the given format. An empty format is
// detected from the path.
func ReadRecords(path, format string) ([]*model.Record, error) {
	if format == "" {
		format = DetectFormat(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return readCSV(f)
	case FormatJSON:
		return readJSON(f)
	case FormatJSONL:
		return ReadJSONL(f)
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported dataset format %q", format)).
			WithCause(errors.ErrUnsupportedFormat)
	}
}

// WriteRecords writes records to a dataset file in the given format,
// creating parent directories as needed.
func WriteRecords(path, format string, records []*model.Record) error {
	if format == "" {
		format = DetectFormat(path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return writeCSV(f, records)
	case FormatJSON:
		return writeJSON(f, records)
	case FormatJSONL:
		return WriteJSONL(f, records)
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported dataset format %q", format)).
			WithCause(errors.ErrUnsupportedFormat)
	}
}

// CSVHeader reads the header row of a CSV file, preserving source column
// order for field detection.
func CSVHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	return header, nil
}

func readCSV(r io.Reader) ([]*model.Record, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]*model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fields := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i < len(row) {
				fields[col] = row[i]
			}
		}
		records = append(records, model.FromMap(fields))
	}
	return records, nil
}

func readJSON(r io.Reader) ([]*model.Record, error) {
	var maps []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&maps); err != nil {
		return nil, fmt.Errorf("failed to parse json array: %w", err)
	}
	records := make([]*model.Record, 0, len(maps))
	for _, m := range maps {
		records = append(records, model.FromMap(m))
	}
	return records, nil
}

// ReadJSONL decodes one record per line, skipping blank lines.
func ReadJSONL(r io.Reader) ([]*model.Record, error) {
	var records []*model.Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(text), &fields); err != nil {
			return nil, fmt.Errorf("failed to parse jsonl line %d: %w", line, err)
		}
		records = append(records, model.FromMap(fields))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jsonl: %w", err)
	}
	return records, nil
}

func writeCSV(w io.Writer, records []*model.Record) error {
	header := csvHeader(records)
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, record := range records {
		row := make([]string, len(header))
		for i, col := range header {
			if val, ok := record.Field(col); ok {
				row[i] = stringify(val)
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// csvHeader collects every field name across the batch, well-known fields
// first, the rest alphabetical.
func csvHeader(records []*model.Record) []string {
	known := []string{model.FieldText, model.FieldOutput, model.FieldWordCount, model.FieldSentenceCount}
	seen := map[string]bool{}
	header := make([]string, 0, 8)

	for _, col := range known {
		for _, record := range records {
			if _, ok := record.Field(col); ok {
				header = append(header, col)
				seen[col] = true
				break
			}
		}
	}

	var rest []string
	for _, record := range records {
		for col := range record.Fields {
			if !seen[col] {
				seen[col] = true
				rest = append(rest, col)
			}
		}
	}
	sort.Strings(rest)
	return append(header, rest...)
}

func stringify(val interface{}) string {
	switch v := val.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

func writeJSON(w io.Writer, records []*model.Record) error {
	maps := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		maps = append(maps, record.Fields)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(maps)
}

// WriteJSONL encodes one record per line.
func WriteJSONL(w io.Writer, records []*model.Record) error {
	encoder := json.NewEncoder(w)
	for _, record := range records {
		if err := encoder.Encode(record.Fields); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	return nil
}
