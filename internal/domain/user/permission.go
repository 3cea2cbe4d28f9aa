package user

type Permission string

const (
	// Attendance Management
	PermissionAttendanceSelf    Permission = "attendance.self"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Leave Management
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Company calendar & announcements
	PermissionHolidayManage      Permission = "holiday.manage"
	PermissionAnnouncementManage Permission = "announcement.manage"

	// User Management
	PermissionUserViewAll Permission = "user.view_all"
	PermissionUserManage  Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceSelf,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionHolidayManage,
		PermissionAnnouncementManage,
		PermissionUserViewAll,
		PermissionUserManage,
	},
	RoleEmployee: {
		PermissionAttendanceSelf,
		PermissionLeaveCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
