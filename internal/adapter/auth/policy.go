package auth

import (
	"path"
	"strings"
)

// Requirement is what a caller must present to invoke a method. An empty
// Scope with Public unset means any valid token.
type Requirement struct {
	Public bool
	Scope  string
}

// Policy maps full gRPC method names to their requirement. Methods missing
// from the table fall back to the default requirement.
type Policy struct {
	rules    map[string]Requirement
	fallback Requirement
}

func NewPolicy(fallback Requirement) *Policy {
	return &Policy{rules: make(map[string]Requirement), fallback: fallback}
}

// ParsePolicy builds the cart service table: every method needs scope except
// those named in public, given either as full method names or bare method
// names ("AddItems").
func ParsePolicy(scope string, public []string) *Policy {
	p := NewPolicy(Requirement{Scope: scope})
	for _, m := range public {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		p.Set(m, Requirement{Public: true})
	}
	return p
}

func (p *Policy) Set(method string, req Requirement) {
	p.rules[method] = req
}

func (p *Policy) Requirement(fullMethod string) Requirement {
	if req, ok := p.rules[fullMethod]; ok {
		return req
	}
	if req, ok := p.rules[path.Base(fullMethod)]; ok {
		return req
	}
	return p.fallback
}
