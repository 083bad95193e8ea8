package strategy

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a strategy with its default config
type Factory func() Strategy

var (
	registry     = make(map[string]Factory)
	registryLock sync.RWMutex
)

// Register adds a strategy factory under name.
// New strategies: strategy.Register("value", func() Strategy { ... })
func Register(name string, factory Factory) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[name] = factory
}

// Get builds the named strategy
func Get(name string) (Strategy, error) {
	registryLock.RLock()
	factory, ok := registry[name]
	registryLock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s (available: %v)", name, List())
	}
	return factory(), nil
}

// MustGet builds the named strategy, panicking when unknown
func MustGet(name string) Strategy {
	s, err := Get(name)
	if err != nil {
		panic(err)
	}
	return s
}

// List returns the registered strategy names, sorted
func List() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info describes a registered strategy
type Info struct {
	Name        string
	Description string
}

// AllInfo lists every registered strategy with its description
func AllInfo() []Info {
	names := List()
	infos := make([]Info, 0, len(names))
	for _, name := range names {
		if s, err := Get(name); err == nil {
			infos = append(infos, Info{Name: s.Name(), Description: s.Description()})
		}
	}
	return infos
}

func init() {
	Register("value", func() Strategy { return NewValueStrategy(DefaultValueConfig()) })
	Register("momentum", func() Strategy { return NewMomentumStrategy(DefaultMomentumConfig()) })
	Register("breakout", func() Strategy { return NewBreakoutStrategy(DefaultBreakoutConfig()) })
	Register("quality", func() Strategy { return NewQualityStrategy(DefaultQualityConfig()) })
	Register("multifactor", func() Strategy { return NewMultiFactorStrategy(DefaultMultiFactorConfig()) })
}
