package directive

import "strings"

// Role identifies one directive slot. Roles combine as a bit set.
type Role uint16

const (
	RoleGet Role = 1 << iota
	RoleSet
	RoleGoto
	RoleRetrieve
	RoleUpdate
	RoleVerify
	RoleConfirm
	RoleNavigate
)

var roleNames = []struct {
	role Role
	name string
}{
	{RoleGet, "get"},
	{RoleSet, "set"},
	{RoleGoto, "goto"},
	{RoleRetrieve, "retrieve"},
	{RoleUpdate, "update"},
	{RoleVerify, "verify"},
	{RoleConfirm, "confirm"},
	{RoleNavigate, "navigate"},
}

// String returns the directive name, or a "|"-joined list for a set.
func (r Role) String() string {
	var names []string
	for _, rn := range roleNames {
		if r&rn.role != 0 {
			names = append(names, rn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
