package user

type Permission string

const (
	// Self service
	PermissionPayslipViewOwn Permission = "payslip.view_own"
	PermissionDashboardView  Permission = "dashboard.view_own"

	// Payroll
	PermissionPayrollViewAll    Permission = "payroll.view_all"
	PermissionPayrollRegenerate Permission = "payroll.regenerate"

	// Directory
	PermissionDirectoryView Permission = "directory.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPayslipViewOwn,
		PermissionDashboardView,
		PermissionPayrollViewAll,
		PermissionPayrollRegenerate,
		PermissionDirectoryView,
	},
	RoleHR: {
		PermissionPayslipViewOwn,
		PermissionDashboardView,
		PermissionPayrollViewAll,
		PermissionPayrollRegenerate,
		PermissionDirectoryView,
	},
	RoleEmployee: {
		PermissionPayslipViewOwn,
		PermissionDashboardView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
