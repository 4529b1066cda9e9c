package user

type Role string

const (
	RoleEmployee Role = "employee" // Self-service only
	RoleHR       Role = "hr"       // Payroll and directory
	RoleAdmin    Role = "admin"    // Everything HR can do
)

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	}
	return false
}
