package weft_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft"
)

func TestExpose(t *testing.T) {
	t.Parallel()

	c := weft.New()
	d := weft.MustRegister[englishGreeter](c)

	_, err := weft.Lookup[greeter](c)
	require.True(t, weft.IsNotFound(err), "not exposed yet")

	require.NoError(t, weft.Expose[greeter](c, d))

	g, err := weft.Lookup[greeter](c)
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Greet())
}

func TestExpose_Idempotent(t *testing.T) {
	t.Parallel()

	c := weft.New()
	d := weft.MustRegister[englishGreeter](c)

	require.NoError(t, weft.Expose[greeter](c, d))
	require.NoError(t, weft.Expose[greeter](c, d))

	g, err := weft.Lookup[greeter](c)
	require.NoError(t, err, "double exposure must not create a duplicate match")
	assert.NotNil(t, g)
}

func TestExpose_NotImplemented(t *testing.T) {
	t.Parallel()

	c := weft.New()
	d := weft.MustRegister[Config](c)

	err := weft.Expose[greeter](c, d)
	require.Error(t, err)
	assert.ErrorContains(t, err, "does not implement")
}

func TestExpose_AfterStart(t *testing.T) {
	t.Parallel()

	c := weft.New()
	d := weft.MustRegister[englishGreeter](c)
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() { _ = c.Stop(context.Background()) })

	err := weft.Expose[greeter](c, d)
	assert.True(t, weft.IsContainerStarted(err))
}

func TestExpose_ForeignDescriptor(t *testing.T) {
	t.Parallel()

	c := weft.New()
	other := weft.New()
	d := weft.MustRegister[englishGreeter](other)

	err := weft.Expose[greeter](c, d)
	assert.True(t, weft.IsNotFound(err))
}

func TestMustExpose_Panics(t *testing.T) {
	t.Parallel()

	c := weft.New()
	d := weft.MustRegister[Config](c)

	assert.Panics(t, func() {
		weft.MustExpose[greeter](c, d)
	})
}
