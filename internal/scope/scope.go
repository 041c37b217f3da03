package scope

type Scope int

const (
	Singleton Scope = iota
	Prototype
)

func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Prototype:
		return "prototype"
	default:
		return "unknown"
	}
}
