package weft

// A Qualifier narrows which component an injection site or lookup
// matches when the required type alone is not enough. Qualifiers
// compare by their String form.
type Qualifier interface {
	String() string
}

// Named is the naming qualifier. Every descriptor carries exactly one,
// assigned at registration and changed only through Descriptor.Named.
type Named string

func (n Named) String() string {
	return "name=" + string(n)
}

// Labeled is a free-form grouping qualifier. A component may carry any
// number of labels.
type Labeled string

func (l Labeled) String() string {
	return "label=" + string(l)
}

// BindingIndex receives qualifier changes so name and qualifier
// lookups stay current as descriptors are renamed or requalified
// during bootstrap. The Container is the index for every descriptor
// registered with it.
type BindingIndex interface {
	BindQualifier(d *Descriptor, q Qualifier)
}

func qualifierEqual(a, b Qualifier) bool {
	return a.String() == b.String()
}

func isNaming(q Qualifier) bool {
	_, ok := q.(Named)
	return ok
}

// satisfies reports whether a descriptor's qualifier set contains
// every qualifier in criteria.
func satisfies(qualifiers []Qualifier, criteria []Qualifier) bool {
	for _, want := range criteria {
		found := false
		for _, have := range qualifiers {
			if qualifierEqual(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func qualifierStrings(qualifiers []Qualifier) []string {
	out := make([]string, len(qualifiers))
	for i, q := range qualifiers {
		out[i] = q.String()
	}
	return out
}
