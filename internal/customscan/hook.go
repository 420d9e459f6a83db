package customscan

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/catalog"
	"github.com/zombodb/zdbscan/pkg/nodes"
	"github.com/zombodb/zdbscan/pkg/planner"
)

// ErrAlreadyInstalled is returned when Install is called more than once on
// the same Extension.
var ErrAlreadyInstalled = errors.New("custom scan provider already installed")

// hookCell holds the hook that was installed before ours. It is written
// once, before our hook becomes visible to the planner, and only read
// afterwards.
type hookCell struct {
	once sync.Once
	hook planner.SetRelPathlistHook
}

func (c *hookCell) store(hook planner.SetRelPathlistHook) bool {
	stored := false
	c.once.Do(func() {
		c.hook = hook
		stored = true
	})
	return stored
}

func (c *hookCell) load() planner.SetRelPathlistHook {
	return c.hook
}

// Extension is an installable instance of the provider.
type Extension struct {
	catalog catalog.Catalog
	config  Config
	prev    hookCell
}

// NewExtension returns a provider resolving its operator through cat.
func NewExtension(cat catalog.Catalog, opts ...ConfigOption) (*Extension, error) {
	if cat == nil {
		return nil, errors.New("a catalog is required")
	}
	config := NewConfigWithOptionsAndDefaults(opts...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid custom scan config: %w", err)
	}
	return &Extension{catalog: cat, config: *config}, nil
}

// Config returns a copy of the provider's configuration.
func (e *Extension) Config() Config {
	return e.config
}

// Install chains the provider in front of the hook currently set in hooks.
func (e *Extension) Install(hooks *planner.Hooks) error {
	if hooks == nil {
		return errors.New("no planner hooks to install into")
	}
	if !e.prev.store(hooks.SetRelPathlist) {
		return ErrAlreadyInstalled
	}
	hooks.SetRelPathlist = e.dispatch

	log.Debug().Bool("chained", e.prev.load() != nil).Interface("config", e.config.DebugMap()).Msg("installed custom scan provider")
	return nil
}

// dispatch runs the previous hook, then proposes our path. An error from the
// previous hook is returned as is and no path is proposed.
func (e *Extension) dispatch(root *nodes.PlannerInfo, rel *nodes.RelOptInfo, rti nodes.Index, rte *nodes.RangeTblEntry) error {
	if prev := e.prev.load(); prev != nil {
		if err := prev(root, rel, rti, rte); err != nil {
			return err
		}
	}

	log.Trace().Uint32("rti", uint32(rti)).Str("relation", rte.RefName()).Msg("called our pathlist hook")
	return e.proposePath(root, rel)
}
