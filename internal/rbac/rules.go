package rbac

// RolePermissions is the default policy for the guide's three roles.
var RolePermissions = map[string][]string{
	"student": {
		"attempt:*",
	},
	"teacher": {
		"attempt:*",
		"test:create",
		"test:author",
		"post:create",
		"post:tag",
		"tag:create",
		"upload:create",
		"user:view-all",
	},
	"admin": {
		"*", // everything
	},
}
