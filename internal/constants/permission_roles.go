package constants

// PermissionRoles maps each permission to the roles allowed to perform it.
// Settlement and exercise are financial mutations; viewers never reach them.
var PermissionRoles = map[string][]string{
	ViewData:        {Viewer, Employee, Manager, Admin, Superadmin},
	ConfirmVesting:  {Manager, Admin, Superadmin},
	SettleVesting:   {Manager, Admin, Superadmin},
	ExerciseVesting: {Employee, Manager, Admin, Superadmin},
	ManageVesting:   {Admin, Superadmin},
	AcceptGrant:     {Employee, Manager, Admin, Superadmin},
	ManageAdmins:    {Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
