package interp

type (
	// Env is one scope frame in a parent chain. A frame is owned by
	// the block or call that created it and dies with it.
	Env struct {
		parent *Env
		vars   map[string]any
	}
)

func NewEnv(parent *Env) *Env {
	return &Env{
		parent: parent,
		vars:   make(map[string]any),
	}
}

// Get searches the chain innermost to outermost.
func (e *Env) Get(name string) (any, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Declare binds name in this frame, replacing any existing binding
// here and shadowing outer ones.
func (e *Env) Declare(name string, v any) {
	e.vars[name] = v
}

// Set mutates the innermost frame that already holds name. When none
// does, the binding is created in this frame, so an assignment can
// create a name that was never declared.
func (e *Env) Set(name string, v any) {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v

			return
		}
	}

	e.vars[name] = v
}
