package packageid

import "fmt"

// Policy rewrites an Info before it is hashed
type Policy interface {
	Name() string
	Apply(info *Info)
}

// HeaderOnly drops every setting and option. The consumer compiles a
// header-only package, so every producer configuration yields the same bytes.
type HeaderOnly struct{}

func (HeaderOnly) Name() string { return "header_only" }

func (HeaderOnly) Apply(info *Info) {
	info.Settings = Settings{}
	info.Options = map[string]string{}
}

// Full keeps the whole settings vector.
type Full struct{}

func (Full) Name() string { return "full" }

func (Full) Apply(*Info) {}

// PolicyFor maps a recipe's package_id value to a Policy.
func PolicyFor(name string) (Policy, error) {
	switch name {
	case "", "header_only":
		return HeaderOnly{}, nil
	case "full":
		return Full{}, nil
	default:
		return nil, fmt.Errorf("unknown package id policy: %s", name)
	}
}
