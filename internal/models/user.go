package models

import "time"

// User is the minimal credential record: the username is the subject embedded
// in issued tokens. The password is an opaque value compared byte-for-byte;
// a hashing scheme has to be specified before this stores real credentials.
type User struct {
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
