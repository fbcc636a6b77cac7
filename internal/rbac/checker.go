package rbac

import "strings"

// Checker answers permission questions against a role policy. Grants are
// exact names, "*" or a prefix ending in "*" such as "attempt:*".
type Checker struct {
	exact    map[string]map[string]struct{}
	prefixes map[string][]string
}

// NewChecker indexes policy; nil means RolePermissions.
func NewChecker(policy map[string][]string) *Checker {
	if policy == nil {
		policy = RolePermissions
	}
	c := &Checker{
		exact:    make(map[string]map[string]struct{}, len(policy)),
		prefixes: make(map[string][]string, len(policy)),
	}
	for role, grants := range policy {
		set := make(map[string]struct{}, len(grants))
		for _, g := range grants {
			if p, ok := strings.CutSuffix(g, "*"); ok {
				c.prefixes[role] = append(c.prefixes[role], p)
				continue
			}
			set[g] = struct{}{}
		}
		c.exact[role] = set
	}
	return c
}

func (c *Checker) Has(role, perm string) bool {
	if role == "" {
		return false
	}
	if _, ok := c.exact[role][perm]; ok {
		return true
	}
	for _, p := range c.prefixes[role] {
		if strings.HasPrefix(perm, p) {
			return true
		}
	}
	return false
}
