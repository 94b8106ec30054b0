package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/aamishhussain23/finacplus-assignment/internal/dto"

	"github.com/spf13/cobra"
)

func (a *App) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.api.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(a.out, "No users yet.")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tAGE\tDOB\tGENDER\tCREATED")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Age, u.DOB, u.Gender, u.CreatedOn)
			}
			return tw.Flush()
		},
	}
}

func (a *App) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.api.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printUser(u)
		},
	}
}

func (a *App) gendersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genders",
		Short: "List gender options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			genders, err := a.api.Genders(cmd.Context())
			if err != nil {
				return err
			}
			for _, g := range genders {
				fmt.Fprintln(a.out, g)
			}
			return nil
		},
	}
}

func (a *App) printUser(u dto.UserResponse) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Age:\t%d\n", u.Age)
	fmt.Fprintf(tw, "Date of birth:\t%s\n", u.DOB)
	fmt.Fprintf(tw, "Gender:\t%s\n", u.Gender)
	fmt.Fprintf(tw, "About:\t%s\n", u.About)
	return tw.Flush()
}
