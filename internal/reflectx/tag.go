package reflectx

import (
	"fmt"
	"strings"
)

// Tag is a parsed injection tag. The first segment is the component
// name the field requires (empty means match by type alone); the
// remaining segments are label=value options.
type Tag struct {
	Name   string
	Labels []string
}

// ParseTag parses a raw injection tag of the form "name,label=a,label=b".
func ParseTag(raw string) (Tag, error) {
	parts := strings.Split(raw, ",")

	tag := Tag{Name: strings.TrimSpace(parts[0])}

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, found := strings.Cut(part, "=")
		if !found {
			return Tag{}, fmt.Errorf("malformed tag option %q (want label=value)", part)
		}

		switch key {
		case "label":
			if value == "" {
				return Tag{}, fmt.Errorf("empty label value in tag option %q", part)
			}
			tag.Labels = append(tag.Labels, value)
		default:
			return Tag{}, fmt.Errorf("unknown tag option %q", key)
		}
	}

	return tag, nil
}
