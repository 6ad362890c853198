package model

// User is an account record persisted in the auto_user table.
// ID is assigned by the database on insert and never changes afterwards.
type User struct {
	ID       int64
	Login    string
	Password string
}

// IsNew reports whether the user has not been stored yet.
func (u User) IsNew() bool {
	return u.ID == 0
}
