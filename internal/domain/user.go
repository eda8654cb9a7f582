package domain

import "time"

// User is an identity record owned by the credential store. The password is
// only ever held as a salted argon2id digest.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	DevicePIN    *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
