package reflectx

import "reflect"

// Level is one embedding level of a struct type: the embedded struct
// type and the field index path that reaches it from the root.
type Level struct {
	Path []int
	Type reflect.Type
}

// EmbeddedLevels returns the embedding chain of a struct type, most
// distant level first. Only anonymous non-pointer struct fields form
// levels; embedded pointers and interfaces are ignored, as there is no
// value to inject into. A type embedded through two different paths
// yields two levels.
func EmbeddedLevels(t reflect.Type) []Level {
	if t.Kind() != reflect.Struct {
		return nil
	}
	return collectLevels(t, nil)
}

func collectLevels(t reflect.Type, prefix []int) []Level {
	var levels []Level

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || f.Type.Kind() != reflect.Struct {
			continue
		}

		path := make([]int, len(prefix)+1)
		copy(path, prefix)
		path[len(prefix)] = i

		levels = append(levels, collectLevels(f.Type, path)...)
		levels = append(levels, Level{Path: path, Type: f.Type})
	}

	return levels
}

// MethodNames returns the exported method names of *t.
func MethodNames(t reflect.Type) map[string]bool {
	pt := reflect.PointerTo(t)
	names := make(map[string]bool, pt.NumMethod())
	for i := 0; i < pt.NumMethod(); i++ {
		names[pt.Method(i).Name] = true
	}
	return names
}
