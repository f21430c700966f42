// Package record materializes query result rows into the record model the
// chart builder consumes.
package record

// Record maps field names to the raw values of one result row.
type Record map[string]interface{}

// Get returns the value stored under field.
func (r Record) Get(field string) (interface{}, bool) {
	v, ok := r[field]
	return v, ok
}

// RawValue returns the unformatted value for field: the derived raw field
// when present, otherwise the field itself.
func (r Record) RawValue(field string) (interface{}, bool) {
	if v, ok := r[field+RawValueSuffix]; ok {
		return v, true
	}
	return r.Get(field)
}

// Collection is an ordered, append-only sequence of records.
type Collection struct {
	records []Record
}

// NewCollection creates an empty collection with room for n records.
func NewCollection(n int) *Collection {
	return &Collection{records: make([]Record, 0, n)}
}

// Append adds r at the end.
func (c *Collection) Append(r Record) {
	c.records = append(c.records, r)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// At returns the record at index i.
func (c *Collection) At(i int) Record {
	return c.records[i]
}

// All returns the records in row order. Callers must not modify the slice.
func (c *Collection) All() []Record {
	return c.records
}
