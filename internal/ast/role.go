package ast

import "fmt"

// Role records how an expression is used at its site: read, written or
// deleted. Only Name, Attribute, Subscript, Starred, List and Tuple carry one.
type Role uint8

const (
	Load Role = iota
	Store
	Del
)

func (r Role) String() string {
	switch r {
	case Load:
		return "load"
	case Store:
		return "store"
	case Del:
		return "del"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// MarshalText renders the role by name in JSON and YAML dumps.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a role name produced by MarshalText.
func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "load":
		*r = Load
	case "store":
		*r = Store
	case "del":
		*r = Del
	default:
		return fmt.Errorf("unknown expression role %q", text)
	}
	return nil
}

// RoleOf returns the role carried by expr and whether expr can carry one.
func RoleOf(expr Expr) (Role, bool) {
	switch e := expr.(type) {
	case *Name:
		return e.Role, true
	case *Attribute:
		return e.Role, true
	case *Subscript:
		return e.Role, true
	case *Starred:
		return e.Role, true
	case *List:
		return e.Role, true
	case *Tuple:
		return e.Role, true
	default:
		return Load, false
	}
}
