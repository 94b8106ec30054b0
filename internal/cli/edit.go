package cli

import (
	"context"
	"fmt"

	"github.com/aamishhussain23/finacplus-assignment/internal/dto"
	"github.com/aamishhussain23/finacplus-assignment/internal/validate"

	"github.com/spf13/cobra"
)

func (a *App) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a user's fields",
		Long:  "Prompts for each field. Press Enter to keep the current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd.Context(), args[0])
		},
	}
}

func (a *App) edit(ctx context.Context, id string) error {
	cur, err := a.api.GetUser(ctx, id)
	if err != nil {
		return err
	}
	genders, err := a.api.Genders(ctx)
	if err != nil {
		return err
	}

	var req dto.UserRequest

	name, err := GetSimpleText(a.in, fmt.Sprintf("Name [%s]", cur.Name), a.out)
	if err != nil {
		return err
	}
	if name != "" && name != cur.Name {
		req.Name = &name
	}

	rawAge, err := GetSimpleText(a.in, fmt.Sprintf("Age [%d]", cur.Age), a.out)
	if err != nil {
		return err
	}
	if rawAge != "" {
		age, err := parseAge(rawAge)
		if err != nil {
			return err
		}
		if *age != cur.Age {
			req.Age = age
		}
	}

	dob, err := GetSimpleText(a.in, fmt.Sprintf("Date of birth (mm-dd-yyyy) [%s]", cur.DOB), a.out)
	if err != nil {
		return err
	}
	if dob != "" && dob != cur.DOB {
		req.DOB = &dob
	}

	rawGender, err := GetSimpleText(a.in, fmt.Sprintf("Gender %s [%s]", genderMenu(genders), cur.Gender), a.out)
	if err != nil {
		return err
	}
	if gender := pickGender(rawGender, genders); gender != "" && gender != cur.Gender {
		req.Gender = &gender
	}

	about, err := GetMultiline(a.in, "About (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if about != "" && about != cur.About {
		req.About = &about
	}

	if req == (dto.UserRequest{}) {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	// Age and dob are checked as a pair; borrow the unchanged half.
	check := req.Input()
	if check.Age != nil && check.DOB == nil {
		check.DOB = &cur.DOB
	}
	if check.DOB != nil && check.Age == nil {
		check.Age = &cur.Age
	}
	if err := validate.Check(check, validate.ModeUpdate, a.now()); err != nil {
		return err
	}

	password, err := GetPassword(a.in, "Current password", a.out)
	if err != nil {
		return err
	}
	req.Password = &password

	u, err := a.api.EditUser(ctx, id, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User updated successfully")
	return a.printUser(u)
}
