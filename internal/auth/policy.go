package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/pkg/util"
)

// Predicate decides whether an authenticated principal may pass a rule.
type Predicate func(p *Principal) bool

// Authenticated admits any principal.
func Authenticated() Predicate {
	return func(*Principal) bool { return true }
}

// RequireRole admits principals holding at least one of the given roles.
func RequireRole(labels ...domain.RoleLabel) Predicate {
	return func(p *Principal) bool { return p.HasAnyRole(labels...) }
}

// Rule maps a method and path pattern to a role predicate. Patterns are
// segment-wise: "*" matches exactly one segment, a trailing "**" matches the
// rest of the path.
type Rule struct {
	Method  string
	Pattern string
	Allow   Predicate
}

// Policy is the static route authorization table. Rules are evaluated
// top-to-bottom and the first match wins. Routes on the public list need no
// principal; everything else requires at least an authenticated caller.
type Policy struct {
	public []Rule
	rules  []Rule
}

// NewPolicy builds a policy from a public allow-list and an ordered rule set.
func NewPolicy(public []Rule, rules []Rule) *Policy {
	return &Policy{public: public, rules: rules}
}

// Enforce gates every request after authentication. Fails closed: no
// principal on a non-public route is rejected before any handler runs.
func (p *Policy) Enforce() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method, path := c.Method(), c.Path()

		for _, rule := range p.public {
			if rule.matches(method, path) {
				return c.Next()
			}
		}

		principal, ok := PrincipalFromContext(c)
		if !ok {
			return util.NewUnauthorized("authentication required")
		}

		for _, rule := range p.rules {
			if !rule.matches(method, path) {
				continue
			}
			if !rule.Allow(principal) {
				return util.NewForbidden("insufficient role")
			}
			return c.Next()
		}

		// Default rule: authenticated-only.
		return c.Next()
	}
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	return matchPath(r.Pattern, path)
}

func matchPath(pattern, path string) bool {
	patSegs := splitPath(pattern)
	pathSegs := splitPath(path)

	for i, seg := range patSegs {
		if seg == "**" {
			return true
		}
		if i >= len(pathSegs) {
			return false
		}
		if seg != "*" && seg != pathSegs[i] {
			return false
		}
	}
	return len(patSegs) == len(pathSegs)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
