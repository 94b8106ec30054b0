package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aamishhussain23/finacplus-assignment/internal/dto"
	"github.com/aamishhussain23/finacplus-assignment/internal/validate"

	"github.com/spf13/cobra"
)

func (a *App) signupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.signup(cmd.Context())
		},
	}
}

func (a *App) signup(ctx context.Context) error {
	genders, err := a.api.Genders(ctx)
	if err != nil {
		return err
	}

	name, err := GetSimpleText(a.in, "Name", a.out)
	if err != nil {
		return err
	}
	rawAge, err := GetSimpleText(a.in, "Age", a.out)
	if err != nil {
		return err
	}
	age, err := parseAge(rawAge)
	if err != nil {
		return err
	}
	dob, err := GetSimpleText(a.in, "Date of birth (mm-dd-yyyy)", a.out)
	if err != nil {
		return err
	}
	rawGender, err := GetSimpleText(a.in, "Gender "+genderMenu(genders), a.out)
	if err != nil {
		return err
	}
	gender := pickGender(rawGender, genders)
	about, err := GetMultiline(a.in, "About", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.in, "Password", a.out)
	if err != nil {
		return err
	}

	req := dto.UserRequest{
		Name:     &name,
		Age:      age,
		DOB:      &dob,
		Gender:   &gender,
		About:    &about,
		Password: &password,
	}
	if err := validate.Check(req.Input(), validate.ModeCreate, a.now()); err != nil {
		return err
	}

	msg, err := a.api.AddUser(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func parseAge(s string) (*int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		msg, _ := validate.TypeMessage("age")
		return nil, errors.New(msg)
	}
	return &n, nil
}

func genderMenu(options []string) string {
	parts := make([]string, len(options))
	for i, g := range options {
		parts[i] = fmt.Sprintf("%d) %s", i+1, g)
	}
	return "[" + strings.Join(parts, "  ") + "]"
}

// pickGender accepts a menu number or an option name in any case.
// Anything else is returned unchanged for validation to reject.
func pickGender(raw string, options []string) string {
	if i, err := strconv.Atoi(raw); err == nil && i >= 1 && i <= len(options) {
		return options[i-1]
	}
	for _, g := range options {
		if strings.EqualFold(raw, g) {
			return g
		}
	}
	return raw
}
