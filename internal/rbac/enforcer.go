package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Enforcer answers "may this role do this action on this resource". Roles
// are the two-value ADMIN/USER enum, so policies are static and compiled
// in rather than loaded from a policy store.
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

var policies = [][]string{
	// Interns
	{"USER", "attendance", "punch"},
	{"USER", "attendance", "read"},
	{"USER", "leave", "create"},
	{"USER", "leave", "read"},
	{"USER", "leave", "delete"},
	{"USER", "adjustment", "create"},
	{"USER", "adjustment", "read"},
	{"USER", "schedule", "read"},
	{"USER", "ojt_hours", "read"},

	// Admins. Deliberately no "attendance punch": admins cannot hold
	// attendance records.
	{"ADMIN", "attendance", "read"},
	{"ADMIN", "attendance", "read_all"},
	{"ADMIN", "attendance", "update"},
	{"ADMIN", "attendance", "delete"},
	{"ADMIN", "leave", "read"},
	{"ADMIN", "leave", "decide"},
	{"ADMIN", "leave", "delete"},
	{"ADMIN", "adjustment", "read"},
	{"ADMIN", "adjustment", "decide"},
	{"ADMIN", "schedule", "read"},
	{"ADMIN", "schedule", "update"},
	{"ADMIN", "ojt_hours", "read"},
	{"ADMIN", "ojt_hours", "update"},
	{"ADMIN", "user", "read_all"},
	{"ADMIN", "user", "update"},
}

type enforcer struct {
	e *casbin.Enforcer
}

func NewEnforcer() (Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}

	return &enforcer{e: e}, nil
}

func (s *enforcer) Enforce(role, resource, action string) (bool, error) {
	return s.e.Enforce(role, resource, action)
}
