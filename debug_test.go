package weft_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft"
)

func TestInfo(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegisterValue(c, &Config{Port: 8080})
	weft.MustRegister[Database](c)
	weft.MustRegister[Server](c)

	infos := c.Info()
	require.Len(t, infos, 3)

	assert.Equal(t, "config", infos[0].Name, "snapshot is sorted by name")
	assert.Equal(t, "database", infos[1].Name)
	assert.Equal(t, "server", infos[2].Name)

	cfg := infos[0]
	assert.True(t, cfg.Instantiated, "values are cached at registration")
	assert.Equal(t, "singleton", cfg.Scope)
	assert.Equal(t, []string{"name=config"}, cfg.Qualifiers)
	assert.ElementsMatch(t, []string{"database", "server"}, cfg.Dependents)

	db := infos[1]
	assert.True(t, strings.HasSuffix(db.Type, ".Database"))
	assert.False(t, db.Instantiated)
	assert.Equal(t, 1, db.Slots)
	assert.Equal(t, []string{"config"}, db.Dependencies)
	assert.Equal(t, []string{"server"}, db.Dependents)
}

func TestInfo_ReflectsInstantiation(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[Config](c)

	require.False(t, c.Info()[0].Instantiated)

	weft.MustLookup[*Config](c)
	assert.True(t, c.Info()[0].Instantiated)
}

func TestFprintGraph_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	weft.New().FprintGraph(&buf)

	assert.Contains(t, buf.String(), "(empty container)")
}

func TestFprintGraph(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegisterValue(c, &Config{Port: 8080})
	weft.MustRegister[Database](c)

	var buf bytes.Buffer
	c.FprintGraph(&buf)
	out := buf.String()

	assert.Contains(t, out, "● config", "cached value renders as filled")
	assert.Contains(t, out, "○ database", "unbuilt component renders as hollow")
	assert.Contains(t, out, "← config", "slot dependencies are listed per line")
	assert.NotContains(t, out, "*", "type labels drop the pointer marker")
}

func TestSprintGraph(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[Config](c)

	out := c.SprintGraph()
	assert.Contains(t, out, "config")
	assert.Contains(t, out, "Config")
}

func TestFprintGraphDOT(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegisterValue(c, &Config{Port: 8080})
	weft.MustRegister[Database](c)

	var buf bytes.Buffer
	c.FprintGraphDOT(&buf)
	out := buf.String()

	assert.Contains(t, out, "digraph components {")
	assert.Contains(t, out, "rankdir=LR;")
	assert.Contains(t, out, "node [shape=box];")
	assert.Contains(t, out, "->", "edge from database to the config value")
	assert.Contains(t, out, "fillcolor=lightblue", "instantiated nodes are filled")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "}"))
}

func TestSprintGraphDOT_NoInstances(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[Config](c)

	out := c.SprintGraphDOT()
	assert.Contains(t, out, "digraph components {")
	assert.NotContains(t, out, "fillcolor", "nothing built yet")
}
