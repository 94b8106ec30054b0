package domain

import "time"

// User is the stored user record. PasswordHash is only populated by store
// reads that explicitly ask for it.
type User struct {
	ID           string
	Name         string
	Age          int
	DOB          time.Time
	Gender       string
	About        string
	PasswordHash string
	CreatedAt    time.Time
}

// Public returns a copy without the credential hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// UserPatch is a partial update. Nil fields keep their stored value.
type UserPatch struct {
	Name   *string
	Age    *int
	DOB    *time.Time
	Gender *string
	About  *string
}

// Apply merges the patch over u and returns the result.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.DOB != nil {
		u.DOB = *p.DOB
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.About != nil {
		u.About = *p.About
	}
	return u
}

// IdentityKey is the natural key of a user: no two records may share it.
// Name is compared case-insensitively, the rest exactly.
type IdentityKey struct {
	Name   string
	Age    int
	DOB    time.Time
	Gender string
}

// Key returns u's identity key.
func (u User) Key() IdentityKey {
	return IdentityKey{Name: u.Name, Age: u.Age, DOB: u.DOB, Gender: u.Gender}
}
