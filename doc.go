// Package weft is a reflection-driven inversion-of-control container
// for Go 1.25+.
//
// Components are plain structs. Weft discovers their injection slots
// from struct tags, constructor parameters and inject methods, builds
// instances on demand, and manages singleton lifecycles from startup
// to shutdown.
//
// # Quick Start
//
// Register component types, then look instances up:
//
//	type Repo struct{}
//
//	type Service struct {
//		Repo *Repo `weft:""`
//	}
//
//	c := weft.New()
//	weft.MustRegister[Repo](c)
//	weft.MustRegister[Service](c)
//
//	svc := weft.MustLookup[*Service](c) // svc.Repo is populated
//
// # Injection Slots
//
// Fields tagged `weft` are injection slots. The tag names the wanted
// component; labels narrow the match further:
//
//	type Handler struct {
//		Repo    *Repo  `weft:""`                     // match by type
//		Primary *Repo  `weft:"primaryRepo"`          // match by name
//		Audit   Logger `weft:",label=audit"`         // match by label
//	}
//
// A slot whose dependency is missing is left at its zero value;
// optional dependencies need no marker. A slot matching more than one
// component is an error.
//
// # Constructors
//
// A component may mark exactly one constructor. Its parameters are
// resolved from the container positionally, by type:
//
//	func NewService(repo *Repo) (*Service, error) { ... }
//
//	weft.MustRegister[Service](c, weft.WithConstructor(NewService))
//
// Constructors return *T or (*T, error). Without one, components are
// built as zero values and filled through their slots.
//
// # Inject Methods
//
// Exported methods whose name starts with Inject run after field
// injection, with their parameters resolved like constructor
// parameters:
//
//	func (s *Service) InjectClock(clock *Clock) { s.clock = clock }
//
// # Embedding
//
// Embedded structs are walked most distant level first: a base level's
// fields and methods are processed before the levels embedding it, and
// the leaf type comes last, so base state is ready when leaf inject
// methods run. An embedded level contributes slots only when its type
// is registered as a component in its own right; a plain embedded
// struct is carried as-is.
//
// # Names and Qualifiers
//
// Every component carries exactly one name, derived from the type name
// or set explicitly. Renaming through the descriptor replaces the
// naming qualifier and re-keys the registration:
//
//	d := weft.MustRegister[Repo](c, weft.WithName("primaryRepo"))
//	d.Named("archiveRepo").Qualified(weft.Labeled("cold"))
//
//	repo, err := weft.LookupNamed[*Repo](c, "archiveRepo")
//	raw, err := c.LookupName("archiveRepo")
//
// # Deferred Dependencies
//
// Declaring a slot as Provider[T] defers the lookup until the provider
// is called, which also breaks dependency cycles:
//
//	type Service struct {
//		Peer weft.Provider[*Peer] `weft:""`
//	}
//
//	peer, err := svc.Peer()
//
// # Values
//
// Pre-built values register under their static type and are handed out
// as-is:
//
//	weft.MustRegisterValue(c, &Config{Port: 8080})
//	weft.MustRegisterValue[Repo](c, &pgRepo{}) // binds the interface
//
// # Interfaces
//
// Components match interface lookups they are exposed under:
//
//	weft.MustRegister[PgRepo](c, weft.As[Repo]())
//	repo := weft.MustLookup[Repo](c)
//
// # Scopes
//
// Singleton components (the default) are built once and cached.
// Prototype components are built fresh for every lookup and every
// injection:
//
//	weft.MustRegister[Worker](c, weft.WithScope(weft.Prototype))
//
// # Lifecycle
//
// Start constructs every singleton in dependency order and runs the
// Starter hooks; Stop runs Stopper (or io.Closer) hooks in reverse:
//
//	func (s *Server) Start(ctx context.Context) error { ... }
//	func (s *Server) Stop(ctx context.Context) error { ... }
//
//	c.Start(ctx)
//	c.Stop(ctx)
//	c.Run(ctx) // Start, wait for a signal, Stop
//
// # Health Checks
//
// Instantiated components implementing the check interfaces take part
// in probing:
//
//	err := c.Live(ctx)
//	err := c.Ready(ctx)
//	reports := c.Health(ctx)
//
// # Assemblies
//
// Group registrations into reusable bundles:
//
//	storage := weft.NewAssembly("storage")
//	weft.AssemblyRegister[PgRepo](storage, weft.As[Repo]())
//	weft.AssemblyValue(storage, &Config{})
//
//	app := weft.NewAssembly("app").Include(storage)
//	err := c.Apply(app)
//
// # Debugging
//
// Inspect registrations and the dependency graph:
//
//	c.PrintGraph()    // ASCII to stdout
//	c.PrintGraphDOT() // graphviz DOT to stdout
//	infos := c.Info() // structured snapshot
//
// # Observers
//
// Hook into container activity, for logs or metrics:
//
//	c := weft.New(
//		weft.WithLogger(logger),
//		weft.WithCreateObserver(func(trace uuid.UUID, component string, d time.Duration, err error) {
//			...
//		}),
//	)
//
// NewMetricsObserver publishes the same events as OpenTelemetry
// metrics.
package weft
