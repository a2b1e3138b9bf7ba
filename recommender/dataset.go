package recommender

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SchemaError reports a dataset that is missing required columns.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	where := e.Path
	if where == "" {
		where = "dataset"
	}
	return fmt.Sprintf("%s: missing required columns: %s", where, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// Dataset is the immutable in-memory pose table. It is safe for concurrent use.
type Dataset struct {
	records []PoseRecord
	labels  []string
}

// NewDataset builds a dataset from records. The slice is copied.
func NewDataset(records []PoseRecord) *Dataset {
	ds := &Dataset{records: make([]PoseRecord, len(records))}
	for i, r := range records {
		ds.records[i] = cloneRecord(r)
	}
	ds.labels = distinctPainAreas(ds.records)
	return ds
}

// LoadDataset reads a CSV (or TSV, by extension) pose table from path.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	ds, err := readDataset(f, comma)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Path = path
			return nil, schemaErr
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// ReadDataset parses a comma separated pose table.
func ReadDataset(r io.Reader) (*Dataset, error) {
	return readDataset(r, ',')
}

func readDataset(r io.Reader, comma rune) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrSchema)
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}

	cols := make(map[string]int, len(RequiredColumns()))
	var missing []string
	for _, name := range RequiredColumns() {
		idx := findColumn(header, []string{name})
		if idx < 0 {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	difficultyCol := findColumn(header, difficultyCandidates)

	records := make([]PoseRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := PoseRecord{
			Pose:         cellAt(row, cols[ColumnPose]),
			PainArea:     cellAt(row, cols[ColumnPainArea]),
			Instructions: make(map[Language]string, len(instructionColumns)),
		}
		for lang, name := range instructionColumns {
			rec.Instructions[lang] = cellAt(row, cols[name])
		}
		if difficultyCol >= 0 {
			rec.Difficulty = cellAt(row, difficultyCol)
		}
		records = append(records, rec)
	}
	ds := &Dataset{records: records}
	ds.labels = distinctPainAreas(records)
	return ds, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of every record in file order.
func (d *Dataset) Records() []PoseRecord {
	out := make([]PoseRecord, len(d.records))
	for i, r := range d.records {
		out[i] = cloneRecord(r)
	}
	return out
}

// Record returns the record at row.
func (d *Dataset) Record(row int) (PoseRecord, bool) {
	if row < 0 || row >= len(d.records) {
		return PoseRecord{}, false
	}
	return cloneRecord(d.records[row]), true
}

// PainLabels returns the distinct pain areas in first-seen order.
func (d *Dataset) PainLabels() []string {
	return cloneStrings(d.labels)
}

func distinctPainAreas(records []PoseRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if r.PainArea == "" {
			continue
		}
		key := foldKey(r.PainArea)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r.PainArea)
	}
	return out
}

func cloneRecord(r PoseRecord) PoseRecord {
	out := r
	out.Instructions = make(map[Language]string, len(r.Instructions))
	for k, v := range r.Instructions {
		out.Instructions[k] = v
	}
	return out
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}
