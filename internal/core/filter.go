package core

// FilterByCategory keeps records whose resolved category is one of cats.
// With no cats every record is kept. The input slice is not modified.
func FilterByCategory(records []NormalizedRecord, cats ...TaxCategory) []NormalizedRecord {
	if len(cats) == 0 {
		return records
	}
	out := make([]NormalizedRecord, 0, len(records))
	for _, rec := range records {
		for _, c := range cats {
			if rec.Tax.Category == c {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}
