package user

// IsAdminOrSelf permits staff and superusers to act on any user record,
// and everyone else only on their own. The same rule guards retrieval,
// update, deletion and deactivation.
func IsAdminOrSelf(principal *User, targetID uint) bool {
	if principal == nil {
		return false
	}
	if principal.IsAdmin() {
		return true
	}
	return principal.ID == targetID
}
