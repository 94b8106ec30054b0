// Package validate holds the field rules for user records. The API service
// uses it as the authoritative gate and the CLI client runs the same checks
// before sending a request.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DOBLayout is the wire format of a date of birth: mm-dd-yyyy.
const DOBLayout = "01-02-2006"

const (
	MinAge         = 0
	MaxAge         = 120
	MinNameLen     = 2
	MaxAboutLen    = 5000
	MinPasswordLen = 10
)

var genders = []string{"Male", "Female", "Other"}

const (
	msgName     = "Name must be a string with at least 2 characters and should not contain numbers."
	msgAge      = "Age must be a number between 0 and 120."
	msgDOBShape = "Date of Birth must be in the format mm-dd-yyyy."
	msgDOBNum   = "Date of Birth contains invalid numbers."
	msgDOBDate  = "Date of Birth is not a valid date."
	msgDOBAge   = "The provided age does not match the Date of Birth. CORRECT AGE: %d"
	msgGender   = "Gender must be one of the following: Male, Female, Other."
	msgAbout    = "About section cannot be empty and must be a string with a maximum of 5000 characters."
	msgPassword = "Password must be at least 10 characters long and contain both letters and numbers."
)

// Mode selects which rules apply.
type Mode int

const (
	// ModeCreate requires every field and enforces password strength.
	ModeCreate Mode = iota
	// ModeUpdate checks only the fields present; the password is an
	// authorization secret there, not a new value, so it is not checked.
	ModeUpdate
)

// Input is a candidate record. Nil means the field was not supplied.
type Input struct {
	Name     *string
	Age      *int
	DOB      *string
	Gender   *string
	About    *string
	Password *string
}

// Error reports the first rule a candidate record violated.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(field, msg string) *Error { return &Error{Field: field, Message: msg} }

// Check runs the rules in fixed order (name, age, dob, gender, about,
// password) and returns the first failure as *Error, or nil.
//
// In ModeUpdate the age/dob consistency rule runs when either is present;
// the caller is expected to fill the other one from the stored record.
func Check(in Input, mode Mode, now time.Time) error {
	create := mode == ModeCreate

	if in.Name != nil || create {
		if in.Name == nil || !validName(*in.Name) {
			return fail("name", msgName)
		}
	}

	if in.Age != nil || create {
		if in.Age == nil || *in.Age < MinAge || *in.Age > MaxAge {
			return fail("age", msgAge)
		}
	}

	if in.DOB != nil || create {
		if in.DOB == nil {
			return fail("dob", msgDOBShape)
		}
		dob, err := ParseDOB(*in.DOB)
		if err != nil {
			return err
		}
		if in.Age != nil {
			if got := AgeOn(dob, now); got != *in.Age {
				return fail("dob", fmt.Sprintf(msgDOBAge, got))
			}
		}
	}

	if in.Gender != nil || create {
		if in.Gender == nil || !IsGender(*in.Gender) {
			return fail("gender", msgGender)
		}
	}

	if in.About != nil || create {
		if in.About == nil || !validAbout(*in.About) {
			return fail("about", msgAbout)
		}
	}

	if create {
		if in.Password == nil || !StrongPassword(*in.Password) {
			return fail("password", msgPassword)
		}
	}
	return nil
}

func validName(s string) bool {
	if utf8.RuneCountInString(s) < MinNameLen {
		return false
	}
	return !strings.ContainsAny(s, "0123456789")
}

func validAbout(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= MaxAboutLen
}

// StrongPassword reports whether p has at least MinPasswordLen characters,
// an ASCII letter and a digit.
func StrongPassword(p string) bool {
	if utf8.RuneCountInString(p) < MinPasswordLen {
		return false
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		}
	}
	return letter && digit
}

// ParseDOB parses an mm-dd-yyyy date into midnight UTC. Failures are *Error
// values carrying the same messages Check reports.
func ParseDOB(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, fail("dob", msgDOBShape)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fail("dob", msgDOBNum)
		}
		nums[i] = n
	}
	month, day, year := nums[0], nums[1], nums[2]
	// A short year such as 94 would land in the first century.
	if len(strings.TrimSpace(parts[2])) != 4 || year < 1000 {
		return time.Time{}, fail("dob", msgDOBDate)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 02-30 into March; reject anything that moved.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fail("dob", msgDOBDate)
	}
	return t, nil
}

// FormatDOB renders a date of birth in wire format.
func FormatDOB(t time.Time) string {
	return t.Format(DOBLayout)
}

// AgeOn returns whole years between dob and now, minus one when the birthday
// has not yet occurred in now's year.
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// Genders returns the allowed gender values in display order.
func Genders() []string {
	out := make([]string, len(genders))
	copy(out, genders)
	return out
}

// IsGender reports whether g is one of Genders (exact match).
func IsGender(g string) bool {
	for _, v := range genders {
		if v == g {
			return true
		}
	}
	return false
}

// TypeMessage returns the rule message for a field whose JSON value has the
// wrong type, e.g. a string age. ok is false for unknown fields.
func TypeMessage(field string) (msg string, ok bool) {
	switch field {
	case "name":
		return msgName, true
	case "age":
		return msgAge, true
	case "dob":
		return msgDOBShape, true
	case "gender":
		return msgGender, true
	case "about":
		return msgAbout, true
	case "password":
		return msgPassword, true
	}
	return "", false
}
