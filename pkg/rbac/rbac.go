package rbac

import "slices"

// 权限常量
const (
	PermissionReadHabits   = "habit:read"
	PermissionWriteHabits  = "habit:write"
	PermissionReadProfile  = "profile:read"
	PermissionWriteProfile = "profile:write"
	PermissionExportData   = "data:export"

	// 管理操作权限
	PermissionReplayOutbox = "outbox:replay"
)

// 角色常量
const (
	RoleUser  = "user"
	RoleGuest = "guest"
	RoleAdmin = "admin"
)

var userPermissions = []string{
	PermissionReadHabits,
	PermissionWriteHabits,
	PermissionReadProfile,
	PermissionWriteProfile,
	PermissionExportData,
}

// 角色权限映射
var rolePermissions = map[string][]string{
	RoleUser:  userPermissions,
	RoleGuest: userPermissions,
	RoleAdmin: append(slices.Clone(userPermissions), PermissionReplayOutbox),
}

// NormalizeRole 未知或空角色按 user 处理
func NormalizeRole(role string) string {
	if _, ok := rolePermissions[role]; ok {
		return role
	}
	return RoleUser
}

// HasPermission 检查角色是否有指定权限
func HasPermission(role string, permission string) bool {
	return slices.Contains(rolePermissions[NormalizeRole(role)], permission)
}

// CheckPermission 检查权限（返回错误而不是布尔值，便于处理）
func CheckPermission(userID, role string, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			UserID:     userID,
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError 表示权限不足的错误
type PermissionDeniedError struct {
	UserID     string
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions: " + e.Permission
}
