package dto

import (
	"time"

	dom "github.com/aamishhussain23/finacplus-assignment/internal/domain"
	"github.com/aamishhussain23/finacplus-assignment/internal/validate"
)

// CreatedOnLayout renders creation dates in long British form, e.g. "4 May 2024".
const CreatedOnLayout = "2 January 2006"

// UserRequest is the JSON body for POST /add-user and PUT /edit-user/:id.
// Absent fields are nil. On edit, password authorizes the change.
type UserRequest struct {
	Name     *string `json:"name" example:"Alice"`
	Age      *int    `json:"age" example:"30"`
	DOB      *string `json:"dob" example:"05-04-1994"` // mm-dd-yyyy
	Gender   *string `json:"gender" example:"Female" enums:"Male,Female,Other"`
	About    *string `json:"about" example:"hi"`
	Password *string `json:"password" example:"abcdefg123"`
}

// Input converts the request into validation input.
func (r UserRequest) Input() validate.Input {
	return validate.Input{
		Name:     r.Name,
		Age:      r.Age,
		DOB:      r.DOB,
		Gender:   r.Gender,
		About:    r.About,
		Password: r.Password,
	}
}

// PasswordValue returns the password or "" when absent.
func (r UserRequest) PasswordValue() string {
	if r.Password == nil {
		return ""
	}
	return *r.Password
}

// DeleteUserRequest is the JSON body for DELETE /delete-user/:id.
type DeleteUserRequest struct {
	Password string `json:"password" example:"abcdefg123"`
}

// UserResponse is the public profile of one user. It never carries the password.
type UserResponse struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	DOB    string `json:"dob"`
	Gender string `json:"gender"`
	About  string `json:"about"`
}

// UserSummary is one row of GET /get-all-user.
type UserSummary struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
	CreatedOn string `json:"createdOn"`
}

// MessageResponse is the envelope for confirmations and errors.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type UserEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}

type UsersEnvelope struct {
	Success bool          `json:"success"`
	Users   []UserSummary `json:"users"`
}

type GendersEnvelope struct {
	Success bool     `json:"success"`
	Genders []string `json:"genders"`
}

func UserToResponse(u dom.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Age:    u.Age,
		DOB:    validate.FormatDOB(u.DOB),
		Gender: u.Gender,
		About:  u.About,
	}
}

func UserToSummary(u dom.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		DOB:       validate.FormatDOB(u.DOB),
		Gender:    u.Gender,
		CreatedOn: FormatCreatedOn(u.CreatedAt),
	}
}

func UsersToSummaries(list []dom.User) []UserSummary {
	out := make([]UserSummary, len(list))
	for i := range list {
		out[i] = UserToSummary(list[i])
	}
	return out
}

// FormatCreatedOn formats t in UTC with CreatedOnLayout.
func FormatCreatedOn(t time.Time) string {
	return t.UTC().Format(CreatedOnLayout)
}
