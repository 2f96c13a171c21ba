package models

import (
	"sort"
)

// DataSet is an ordered, immutable collection of records in source order
// (spreadsheet row order or XML document order). Accessors return copies.
type DataSet struct {
	source  string
	fields  []string
	records []Record
}

// NewDataSet builds a DataSet from the declared field list and records.
// Records are copied; every record is padded so it carries exactly the declared fields.
func NewDataSet(source string, fields []string, records []Record) *DataSet {
	ds := &DataSet{
		source:  source,
		fields:  append([]string(nil), fields...),
		records: make([]Record, 0, len(records)),
	}
	for _, r := range records {
		rec := make(Record, len(fields))
		for _, f := range fields {
			rec[f] = r[f]
		}
		ds.records = append(ds.records, rec)
	}
	return ds
}

// Source returns the path the dataset was loaded from
func (d *DataSet) Source() string {
	return d.source
}

// Fields returns the declared field names in column order
func (d *DataSet) Fields() []string {
	return append([]string(nil), d.fields...)
}

// Len returns the number of records
func (d *DataSet) Len() int {
	return len(d.records)
}

// IsEmpty reports whether the dataset holds no records
func (d *DataSet) IsEmpty() bool {
	return len(d.records) == 0
}

// At returns a copy of the record at index i
func (d *DataSet) At(i int) Record {
	return d.records[i].Clone()
}

// Records returns a deep copy of all records in source order
func (d *DataSet) Records() []Record {
	return cloneRecords(d.records)
}

// SortedBy returns a copy of the records ordered by key, ascending, case-sensitive.
// The sort is stable so records sharing a key keep source order.
func (d *DataSet) SortedBy(key string) []Record {
	return SortRecords(d.records, key)
}

// SortRecords returns a copy of records stably ordered by the given field
func SortRecords(records []Record, key string) []Record {
	out := cloneRecords(records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i][key] < out[j][key]
	})
	return out
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
