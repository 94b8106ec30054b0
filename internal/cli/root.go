// Package cli implements userdir, the terminal client for the user directory.
package cli

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/aamishhussain23/finacplus-assignment/internal/client"

	"github.com/spf13/cobra"
)

// App holds what every command shares.
type App struct {
	api *client.Client
	in  *bufio.Reader
	out io.Writer
	now func() time.Time
}

// NewRootCmd builds the userdir command tree reading prompts from in and
// writing results to out.
func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &App{in: bufio.NewReader(in), out: out, now: time.Now}

	var (
		server  string
		timeout time.Duration
	)
	root := &cobra.Command{
		Use:   "userdir",
		Short: "Terminal client for the user directory API",
		Long: `Sign up, list, view, edit and delete user records.

Edits and deletes ask for the record's password.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.api = client.New(server, timeout)
		},
	}
	root.PersistentFlags().StringVar(&server, "server", envOr("USERDIR_SERVER", client.DefaultBaseURL), "API base URL (or set USERDIR_SERVER)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	root.SetIn(in)
	root.SetOut(out)

	root.AddCommand(
		a.signupCmd(),
		a.listCmd(),
		a.viewCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.gendersCmd(),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
