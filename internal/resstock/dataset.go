package resstock

// Dataset is an immutable in-memory snapshot of the baseline dataset plus the
// set of (cleaned) column names the source file actually carried. Aggregators
// consult Columns to distinguish a missing column from empty data.
type Dataset struct {
	Records []BuildingRecord
	columns map[string]bool
}

// NewDataset builds a Dataset from records and the cleaned column names that
// were present in the source.
func NewDataset(records []BuildingRecord, columns []string) *Dataset {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return &Dataset{Records: records, columns: set}
}

// HasColumn reports whether the source carried the given cleaned column name.
func (d *Dataset) HasColumn(name string) bool {
	return d.columns[name]
}

// Len returns the number of building records.
func (d *Dataset) Len() int {
	return len(d.Records)
}
