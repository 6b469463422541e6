package openapifix

// NameFixReport summarizes one rename+rewrite+validate phase. Purely
// observational; nothing consults it for control flow.
type NameFixReport struct {
	Renames     RenameMap
	RefsRewrote int
	Skipped     Issues // non-fatal conditions, e.g. missing container
}

// Changed reports whether the phase mutated the document at all.
func (r *NameFixReport) Changed() bool {
	return len(r.Renames) > 0 || r.RefsRewrote > 0
}
