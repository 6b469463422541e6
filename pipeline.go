package openapifix

// NameFixOptions configures the rename+rewrite+validate phase.
type NameFixOptions struct {
	// ContainerPath addresses the identifier registry; defaults to
	// components.schemas.
	ContainerPath []string
	// RefPrefix is the pointer prefix for that registry; defaults to
	// SchemaRefPrefix.
	RefPrefix string
	// IsInvalid selects identifiers to rename; defaults to SpacesInvalid.
	IsInvalid func(string) bool
	// Normalizer computes new names; defaults to StripSpaces.
	Normalizer Normalizer
}

func (o *NameFixOptions) fill() {
	if len(o.ContainerPath) == 0 {
		o.ContainerPath = []string{"components", "schemas"}
	}
	if o.RefPrefix == "" {
		o.RefPrefix = SchemaRefPrefix
	}
	if o.IsInvalid == nil {
		o.IsInvalid = SpacesInvalid
	}
	if o.Normalizer == nil {
		o.Normalizer = StripSpaces
	}
}

// FixNames runs the atomic identifier phase: rename invalid identifiers,
// rewrite every pointer that targeted them, then validate that no pointer
// under the registry prefix dangles. All work happens on a clone; the result
// replaces doc's content only after validation passes, so on any error
// (collision or broken reference) the caller's document is untouched.
//
// Running FixNames on an already-fixed document returns a zero report: no
// invalid identifiers remain, the rename map is empty, and the rewrite pass
// is a counted no-op.
func FixNames(doc *Node, opts NameFixOptions) (*NameFixReport, error) {
	opts.fill()

	work := doc.Clone()
	rm, err := Rename(work, opts.ContainerPath, opts.IsInvalid, opts.Normalizer)
	if err != nil {
		return nil, err
	}

	report := &NameFixReport{Renames: rm}
	if _, ok := Lookup(work, opts.ContainerPath...); !ok {
		p := NewPath()
		for _, f := range opts.ContainerPath {
			p = p.Field(f)
		}
		report.Skipped = append(report.Skipped, Issue{
			Path:    p.Pointer(),
			Code:    CodeTargetNotFound,
			Message: "identifier container absent, nothing to rename",
		})
	}
	report.RefsRewrote = RewriteRefs(work, opts.RefPrefix, rm)

	dangling := ValidateRefs(work, opts.RefPrefix, ContainerKeySet(work, opts.ContainerPath...))
	if len(dangling) > 0 {
		return nil, &BrokenReferenceError{Refs: dangling}
	}

	doc.ReplaceWith(work)
	return report, nil
}
