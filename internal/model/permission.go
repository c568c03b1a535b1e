package model

// PermissionCode names one capability. Authorization checks compare codes, never role names.
type PermissionCode string

const (
	PermUsersRead   PermissionCode = "users.read"
	PermUsersWrite  PermissionCode = "users.write"
	PermUsersDelete PermissionCode = "users.delete"
	PermRolesRead   PermissionCode = "roles.read"
	PermAuditRead   PermissionCode = "audit.read"
	PermSelfRead    PermissionCode = "self.read"
	PermSelfDelete  PermissionCode = "self.delete"
)

// DefaultPermissions is the full catalogue seeded into the permissions table.
var DefaultPermissions = []Permission{
	{Code: PermUsersRead, Name: "View users", Group: "users"},
	{Code: PermUsersWrite, Name: "Create and update users", Group: "users"},
	{Code: PermUsersDelete, Name: "Delete users", Group: "users"},
	{Code: PermRolesRead, Name: "View roles", Group: "roles"},
	{Code: PermAuditRead, Name: "View audit history", Group: "audit"},
	{Code: PermSelfRead, Name: "View own account", Group: "self"},
	{Code: PermSelfDelete, Name: "Delete own account", Group: "self"},
}

// RoleDefinition describes a seeded role and the capabilities it grants.
type RoleDefinition struct {
	Name        string
	Description string
	Permissions []PermissionCode
}

// DefaultRoles maps each built-in role to its permissions.
var DefaultRoles = []RoleDefinition{
	{
		Name:        RoleAdmin,
		Description: "Administrator, full user management",
		Permissions: []PermissionCode{
			PermUsersRead, PermUsersWrite, PermUsersDelete,
			PermRolesRead, PermAuditRead,
			PermSelfRead, PermSelfDelete,
		},
	},
	{
		Name:        RoleUser,
		Description: "Self-registered account",
		Permissions: []PermissionCode{PermSelfRead, PermSelfDelete},
	},
}
