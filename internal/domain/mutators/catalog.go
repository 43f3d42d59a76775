package mutators

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	m "mutest.dev/pkg/mutest/internal/model"
)

// DefaultProfile selects every registered mutator.
const DefaultProfile = "@default"

// ErrUnknownMutator is returned when a profile names a mutator or category that does not exist.
var ErrUnknownMutator = errors.New("unknown mutator")

// Catalog is an immutable, ordered set of mutators. It is safe for concurrent use.
type Catalog struct {
	mutators []Mutator
	byName   map[string]Mutator
}

// NewCatalog registers mutators in the given order. Names must be unique.
func NewCatalog(mutators ...Mutator) (*Catalog, error) {
	c := &Catalog{
		mutators: make([]Mutator, 0, len(mutators)),
		byName:   make(map[string]Mutator, len(mutators)),
	}

	for _, mutator := range mutators {
		key := strings.ToLower(mutator.Name())
		if _, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("mutator %q registered twice", mutator.Name())
		}

		c.byName[key] = mutator
		c.mutators = append(c.mutators, mutator)
	}

	return c, nil
}

// registrations is the ordered list the default catalog is built from.
// The order decides which mutator wins when several match the same node.
func registrations() []Mutator {
	var all []Mutator

	all = append(all, arithmeticMutators()...)
	all = append(all, boundaryMutators()...)
	all = append(all, conditionalMutators()...)
	all = append(all, logicalMutators()...)
	all = append(all, booleanMutators()...)
	all = append(all, numberMutators()...)
	all = append(all, regexMutators()...)
	all = append(all, returnMutators()...)
	all = append(all, castMutators()...)
	all = append(all, statementMutators()...)
	all = append(all, unaryMutators()...)
	all = append(all, loopMutators()...)

	return all
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(registrations()...)
	if err != nil {
		panic(err)
	}

	return c
})

// Default returns the catalog of all built-in mutators.
func Default() *Catalog {
	return defaultCatalog()
}

// All returns the mutators in registration order.
func (c *Catalog) All() []Mutator {
	return append([]Mutator(nil), c.mutators...)
}

// Len returns the number of registered mutators.
func (c *Catalog) Len() int {
	return len(c.mutators)
}

// Get looks a mutator up by name, case-insensitively.
func (c *Catalog) Get(name string) (Mutator, bool) {
	mutator, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return mutator, ok
}

// Resolve turns a profile into an ordered mutator list.
//
// Entries are mutator names, "@<category>", or "@default"; a leading "-"
// excludes the entry instead. An empty profile means "@default". The result
// keeps registration order regardless of profile order.
func (c *Catalog) Resolve(profile []string) ([]Mutator, error) {
	if len(profile) == 0 {
		profile = []string{DefaultProfile}
	}

	include := make(map[string]bool)
	exclude := make(map[string]bool)

	for _, entry := range profile {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		target := include
		if strings.HasPrefix(entry, "-") {
			target = exclude
			entry = strings.TrimSpace(strings.TrimPrefix(entry, "-"))
		}

		names, err := c.expand(entry)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			target[name] = true
		}
	}

	if len(include) == 0 && len(exclude) > 0 {
		names, _ := c.expand(DefaultProfile)
		for _, name := range names {
			include[name] = true
		}
	}

	resolved := make([]Mutator, 0, len(include))

	for _, mutator := range c.mutators {
		key := strings.ToLower(mutator.Name())
		if include[key] && !exclude[key] {
			resolved = append(resolved, mutator)
		}
	}

	return resolved, nil
}

func (c *Catalog) expand(entry string) ([]string, error) {
	lower := strings.ToLower(entry)

	if lower == DefaultProfile {
		names := make([]string, 0, len(c.mutators))
		for _, mutator := range c.mutators {
			names = append(names, strings.ToLower(mutator.Name()))
		}

		return names, nil
	}

	if category, ok := strings.CutPrefix(lower, "@"); ok {
		var names []string

		for _, mutator := range c.mutators {
			if mutator.Category() == m.Category(category) {
				names = append(names, strings.ToLower(mutator.Name()))
			}
		}

		if len(names) == 0 {
			return nil, fmt.Errorf("%w: category %q", ErrUnknownMutator, category)
		}

		return names, nil
	}

	if _, ok := c.byName[lower]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMutator, entry)
	}

	return []string{lower}, nil
}
