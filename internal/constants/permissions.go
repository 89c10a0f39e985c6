package constants

const (
	ViewData        = "view_data"
	ConfirmVesting  = "confirm_vesting"
	SettleVesting   = "settle_vesting"
	ExerciseVesting = "exercise_vesting"
	ManageVesting   = "manage_vesting"
	AcceptGrant     = "accept_grant"
	ManageAdmins    = "manage_admins"
)
