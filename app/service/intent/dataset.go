package intent

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/oops"
)

const (
	patternSeparator  = ";"
	responseSeparator = "|"
)

var (
	ErrEmptyDataset     = errors.New("dataset is empty")
	ErrMalformedDataset = errors.New("dataset is malformed")
)

var columnAliases = map[string]string{
	"intent":      "intent",
	"patterns":    "patterns",
	"pattern":     "patterns",
	"text_sample": "patterns",
	"input":       "patterns",
	"response":    "response",
	"responses":   "response",
}

// Record is one intent with its sample phrases and reply variants.
type Record struct {
	Intent    string
	Patterns  []string
	Responses []string
}

func LoadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, oops.In("intent").With("path", path).Wrapf(err, "failed to open dataset")
	}
	defer file.Close()

	records, err := Parse(file)
	if err != nil {
		return nil, oops.In("intent").With("path", path).Wrap(err)
	}

	return records, nil
}

// Parse reads a CSV table with intent, patterns and response columns.
// Rows sharing an intent are merged in order of appearance.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, oops.In("intent").Wrap(ErrEmptyDataset)
	}
	if err != nil {
		return nil, oops.In("intent").With("error", err).Wrapf(ErrMalformedDataset, "failed to read header: %v", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := columnAliases[name]; ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = i
			}
		}
	}

	patternsCol, hasPatterns := columns["patterns"]
	responseCol, hasResponse := columns["response"]
	if !hasPatterns || !hasResponse {
		return nil, oops.In("intent").With("header", header).Wrapf(ErrMalformedDataset, "header lacks patterns or response column")
	}
	intentCol, hasIntent := columns["intent"]

	var (
		records []Record
		index   = make(map[string]int)
		line    = 1
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, oops.In("intent").With("line", line+1).Wrapf(ErrMalformedDataset, "failed to read row: %v", err)
		}
		line++

		id := fmt.Sprintf("row_%d", line)
		if hasIntent {
			id = strings.TrimSpace(cell(row, intentCol))
		}

		patterns := splitVariants(cell(row, patternsCol), patternSeparator)
		responses := splitVariants(cell(row, responseCol), responseSeparator)
		if id == "" || len(patterns) == 0 || len(responses) == 0 {
			slog.Warn("Skipping incomplete dataset row", "line", line)
			continue
		}

		if i, ok := index[id]; ok {
			records[i].Patterns = append(records[i].Patterns, patterns...)
			records[i].Responses = append(records[i].Responses, responses...)
			continue
		}

		index[id] = len(records)
		records = append(records, Record{
			Intent:    id,
			Patterns:  patterns,
			Responses: responses,
		})
	}

	if len(records) == 0 {
		return nil, oops.In("intent").Wrapf(ErrEmptyDataset, "no complete rows")
	}

	for i := range records {
		records[i].Patterns = pie.Sort(pie.Unique(records[i].Patterns))
	}

	return records, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func splitVariants(value, sep string) []string {
	parts := pie.Map(strings.Split(value, sep), strings.TrimSpace)

	return pie.Filter(parts, func(part string) bool {
		return part != ""
	})
}
