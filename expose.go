package weft

import "github.com/weftlib/weft/internal/reflectx"

// Expose additionally indexes a registered component under the
// interface I, so later lookups and injection sites typed I match it.
// It is the post-registration form of the As option and is only
// permitted before the container starts.
func Expose[I any](c *Container, d *Descriptor) error {
	t := reflectx.TypeFor[I]()
	if err := checkExposable(d.instance, t); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateNew {
		return errContainerStarted("exposing")
	}
	if !c.registeredLocked(d) {
		return errComponentNotFound(d.name)
	}
	if d.exposes(t) {
		return nil
	}

	d.exposed = append(d.exposed, t)
	c.byType[t] = append(c.byType[t], d)
	return nil
}

// MustExpose is Expose, panicking on error.
func MustExpose[I any](c *Container, d *Descriptor) {
	if err := Expose[I](c, d); err != nil {
		panic(err)
	}
}
