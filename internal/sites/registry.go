package sites

import (
	"fmt"
	"sort"
	"strings"
)

// builtins maps profile names to their constructors. Constructors keep each
// Lookup call independent: callers get a fresh profile they can mutate.
var builtins = map[string]func() *Profile{
	"chelny-izvest": ChelnyIzvest,
}

// Lookup returns a fresh copy of the built-in profile registered under name.
func Lookup(name string) (*Profile, error) {
	ctor, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown site profile %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names returns the built-in profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
