package scan

// FileRecord is one scan file found during enumeration.
type FileRecord struct {
	BatchLabel   string
	FileName     string
	Identifier   string
	RelativePath string
}

// Roster is the ordered list of scan files found under a root directory.
type Roster struct {
	Root    string
	Records []FileRecord
	// Malformed lists files skipped because their names could not be parsed.
	Malformed []MalformedFile
}

// MalformedFile is a file skipped during enumeration.
type MalformedFile struct {
	RelativePath string
	Err          *MalformedNameError
}

// Batches returns the distinct batch labels of the roster in first-seen order.
func (r *Roster) Batches() []string {
	var labels orderedSet
	for _, rec := range r.Records {
		labels.add(rec.BatchLabel)
	}
	return labels.items
}

// ExpectedRecord is one row of the harvest records.
type ExpectedRecord struct {
	BatchLabel string
	Identifier string
}

// ExpectedSet maps batch labels to the identifiers the harvest records
// expect in that batch, keeping batch and record order.
type ExpectedSet struct {
	order []string
	ids   map[string][]string
}

// NewExpectedSet groups records by batch label.
func NewExpectedSet(records []ExpectedRecord) *ExpectedSet {
	s := &ExpectedSet{ids: make(map[string][]string)}
	for _, rec := range records {
		if _, ok := s.ids[rec.BatchLabel]; !ok {
			s.order = append(s.order, rec.BatchLabel)
		}
		s.ids[rec.BatchLabel] = append(s.ids[rec.BatchLabel], rec.Identifier)
	}
	return s
}

// Batches returns the batch labels in first-seen order.
func (s *ExpectedSet) Batches() []string {
	return s.order
}

// Identifiers returns the expected identifiers of a batch, duplicates included.
func (s *ExpectedSet) Identifiers(batchLabel string) []string {
	return s.ids[batchLabel]
}

// Has reports whether any record names batchLabel.
func (s *ExpectedSet) Has(batchLabel string) bool {
	_, ok := s.ids[batchLabel]
	return ok
}

// orderedSet is a string set that remembers insertion order.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *orderedSet) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) has(v string) bool {
	_, ok := s.seen[v]
	return ok
}
