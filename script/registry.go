// Package script loads tengo scripts as scorers and actions. A scorer
// script defines score(world, memory) returning a number; an action script
// defines tick(world, memory, state) returning the next state name. Scripts
// are compiled once per file and cloned per actor, so each actor keeps its
// own globals and memory.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/utilityai/ai"
)

// Env builds the host API a script sees as its `world` argument, bound to
// one actor. Use Funcs to assemble it from callables.
type Env func(actor ai.Actor) *tengo.ImmutableMap

// Funcs wraps host callables into a script-facing API map.
func Funcs(fns map[string]tengo.CallableFunc) *tengo.ImmutableMap {
	values := make(map[string]tengo.Object, len(fns))
	for name, fn := range fns {
		values[name] = &tengo.UserFunction{Name: name, Value: fn}
	}
	return &tengo.ImmutableMap{Value: values}
}

const scorerDispatch = `
if __op == "score" {
	__result = score(__world, __memory)
}
`

const actionDispatch = `
if __op == "tick" {
	__result = tick(__world, __memory, __state)
}
`

// Registry compiles and caches scripts from one directory. Invalidate (or a
// running Watcher) drops a cache entry so the next Build recompiles it.
type Registry struct {
	dir string
	log *zap.Logger

	mu    sync.Mutex
	cache map[string]*tengo.Compiled
}

func NewRegistry(dir string, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		dir:   dir,
		log:   log,
		cache: make(map[string]*tengo.Compiled),
	}
}

// Scorer returns a builder for the named scorer script. Compilation errors
// surface here; runtime errors are logged and score as zero.
func (r *Registry) Scorer(name string, env Env) (ai.ScorerBuilder, error) {
	compiled, err := r.load(name, scorerDispatch)
	if err != nil {
		return nil, err
	}
	return ai.ScorerBuilderFunc(func(actor ai.Actor) ai.Scorer {
		return &scriptScorer{
			name:     name,
			compiled: r.reload(name, scorerDispatch, compiled).Clone(),
			memory:   &tengo.Map{Value: map[string]tengo.Object{}},
			world:    bindEnv(env, actor),
			actor:    actor,
			log:      r.log,
		}
	}), nil
}

// Action returns a builder for the named action script. Runtime errors are
// logged and resolve the action as Failure.
func (r *Registry) Action(name string, env Env) (ai.ActionBuilder, error) {
	compiled, err := r.load(name, actionDispatch)
	if err != nil {
		return nil, err
	}
	return ai.ActionBuilderFunc(func(actor ai.Actor) ai.Action {
		return &scriptAction{
			name:     name,
			compiled: r.reload(name, actionDispatch, compiled).Clone(),
			memory:   &tengo.Map{Value: map[string]tengo.Object{}},
			world:    bindEnv(env, actor),
			actor:    actor,
			log:      r.log,
		}
	}), nil
}

// Invalidate drops the cached compilation for one script, or for every
// script when name is empty.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		r.cache = make(map[string]*tengo.Compiled)
		return
	}
	delete(r.cache, name)
}

func (r *Registry) load(name, dispatch string) (*tengo.Compiled, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("script: empty script name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if compiled, ok := r.cache[name]; ok {
		return compiled, nil
	}

	src, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}

	s := tengo.NewScript(append(src, []byte("\n"+dispatch)...))
	_ = s.Add("__op", "")
	_ = s.Add("__world", map[string]any{})
	_ = s.Add("__memory", map[string]any{})
	_ = s.Add("__state", "")
	_ = s.Add("__result", nil)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	r.cache[name] = compiled
	return compiled, nil
}

// reload fetches the current compilation for a script, recompiling if the
// cache entry was invalidated. The last good compilation serves as fallback
// so a broken edit on disk does not take a running actor down.
func (r *Registry) reload(name, dispatch string, fallback *tengo.Compiled) *tengo.Compiled {
	compiled, err := r.load(name, dispatch)
	if err != nil {
		r.log.Warn("script reload failed, keeping previous version",
			zap.String("script", name),
			zap.Error(err))
		return fallback
	}
	return compiled
}

func bindEnv(env Env, actor ai.Actor) *tengo.ImmutableMap {
	if env == nil {
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	world := env(actor)
	if world == nil {
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	return world
}
