package domain

import "time"

// User is a chat participant. ID is the opaque numeric identity supplied
// by the transport layer; users are created on first contact and never
// updated or deleted.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// MaxUserNameLen matches the VARCHAR(64) column of users.user_name.
const MaxUserNameLen = 64

// Validate checks the invariants of a user record before insertion.
func (u User) Validate() error {
	if u.ID == 0 {
		return NewValidationError("user_id", "must not be zero")
	}
	if u.Name == "" {
		return NewValidationError("user_name", "must not be empty")
	}
	if len(u.Name) > MaxUserNameLen {
		return NewValidationError("user_name", "too long")
	}
	return nil
}
