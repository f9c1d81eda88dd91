package stats

// Record maps schema field names to typed values for one player row.
// Field ordering is owned by the category schema, not the record.
type Record map[string]Value

// RecordSet is an ordered collection of records sharing one category and
// period. It is the unit of persistence and is never mutated after creation;
// conversion builds a new RecordSet rather than editing the source.
type RecordSet struct {
	Category Category
	Period   int
	Records  []Record
}

// Config returns the schema descriptor for the set's category.
func (rs *RecordSet) Config() CategoryConfig {
	return Registry[rs.Category]
}

// Len returns the number of records in the set.
func (rs *RecordSet) Len() int { return len(rs.Records) }
