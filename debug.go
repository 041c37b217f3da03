package weft

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/weftlib/weft/internal/reflectx"
)

// ComponentInfo describes one registration for debugging and tooling.
type ComponentInfo struct {
	Name         string
	Type         string
	Scope        string
	Qualifiers   []string
	Exposed      []string
	Slots        int
	Dependencies []string
	Dependents   []string
	Instantiated bool
}

// Info returns a snapshot of every registration, sorted by name.
func (c *Container) Info() []ComponentInfo {
	g := c.buildGraph()
	descriptors := c.descriptors()

	infos := make([]ComponentInfo, 0, len(descriptors))
	for _, d := range descriptors {
		key := d.key()
		_, instantiated := c.cachedInstance(d)

		infos = append(infos, ComponentInfo{
			Name:         d.name,
			Type:         reflectx.TypeKey(d.declared),
			Scope:        d.scope.String(),
			Qualifiers:   qualifierStrings(d.qualifiers),
			Exposed:      typeKeys(d.exposed),
			Slots:        d.slotCount(),
			Dependencies: componentNames(g.GetDependencies(key)),
			Dependents:   componentNames(g.GetDependents(key)),
			Instantiated: instantiated,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Name != infos[j].Name {
			return infos[i].Name < infos[j].Name
		}
		return infos[i].Type < infos[j].Type
	})

	return infos
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

// FprintGraph writes a line per component: a filled dot for
// instantiated components, a hollow one otherwise, and the
// dependencies the component's slots currently match.
func (c *Container) FprintGraph(w io.Writer) {
	infos := c.Info()

	if len(infos) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, info := range infos {
		status := "○"
		if info.Instantiated {
			status = "●"
		}

		if len(info.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s (%s)\n", status, info.Name, escapeLabel(info.Type))
		} else {
			_, _ = fmt.Fprintf(w, "%s %s (%s) ← %s\n", status, info.Name, escapeLabel(info.Type), strings.Join(info.Dependencies, ", "))
		}
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) PrintGraphDOT() {
	c.FprintGraphDOT(os.Stdout)
}

// FprintGraphDOT writes the dependency graph in DOT form for graphviz.
func (c *Container) FprintGraphDOT(w io.Writer) {
	g := c.buildGraph()
	keys := g.Nodes()
	sort.Strings(keys)

	instantiated := make(map[string]bool)
	for _, d := range c.descriptors() {
		if _, ok := c.cachedInstance(d); ok {
			instantiated[d.key()] = true
		}
	}

	_, _ = fmt.Fprintln(w, "digraph components {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, key := range keys {
		style := ""
		if instantiated[key] {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", key, escapeLabel(key), style)
	}

	_, _ = fmt.Fprintln(w)

	for _, key := range keys {
		deps := g.GetDependencies(key)
		sort.Strings(deps)
		for _, dep := range deps {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", key, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return s
}

func typeKeys(types []reflect.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = reflectx.TypeKey(t)
	}
	return out
}
