package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aamishhussain23/finacplus-assignment/internal/app"
	"github.com/aamishhussain23/finacplus-assignment/internal/client"
	"github.com/aamishhussain23/finacplus-assignment/internal/config"
	"github.com/aamishhussain23/finacplus-assignment/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var cfg config.Config
	cfg.Store.Driver = config.StoreDriverMemory
	cfg.CORS.LocalURI = "http://localhost:5173"
	cfg.Auth.BcryptCost = 4

	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(a.Router())
	t.Cleanup(func() {
		srv.Close()
		_ = a.Close(context.Background())
	})
	return srv.URL + "/api/v1/user"
}

func pipedPasswords(t *testing.T) {
	t.Helper()
	old := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = old })
}

func run(t *testing.T, server, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(strings.NewReader(input), &out)
	cmd.SetArgs(append([]string{"--server", server, "--timeout", "5s"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// thirtyYearsAgo is a dob for which age 30 holds today.
func thirtyYearsAgo() string {
	return validate.FormatDOB(time.Now().UTC().AddDate(-30, 0, -1))
}

func signupInput(name, age string) string {
	return strings.Join([]string{name, age, thirtyYearsAgo(), "2", "hi there", "", "abcdefg123"}, "\n") + "\n"
}

func onlyUserID(t *testing.T, server string) string {
	t.Helper()
	users, err := client.New(server, time.Second).ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	return users[0].ID
}

func TestCLI_Scenario(t *testing.T) {
	pipedPasswords(t)
	server := newServer(t)

	out, err := run(t, server, signupInput("Alice", "30"), "signup")
	require.NoError(t, err)
	assert.Contains(t, out, "User added successfully")

	out, err = run(t, server, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Female")
	id := onlyUserID(t, server)

	out, err = run(t, server, "", "view", id)
	require.NoError(t, err)
	assert.Contains(t, out, "hi there")

	// Keep everything but about, then give the wrong password.
	_, err = run(t, server, "\n\n\n\nnew about\n\nwrongpass99\n", "edit", id)
	require.Error(t, err)
	assert.Equal(t, "Invalid password or Unauthorised user", client.Message(err))

	out, err = run(t, server, "\n\n\n\nnew about\n\nabcdefg123\n", "edit", id)
	require.NoError(t, err)
	assert.Contains(t, out, "User updated successfully")
	assert.Contains(t, out, "new about")

	out, err = run(t, server, "abcdefg123\n", "delete", "--yes", id)
	require.NoError(t, err)
	assert.Contains(t, out, "User deleted successfully")

	_, err = run(t, server, "", "view", id)
	require.Error(t, err)
	assert.Equal(t, "User not found", client.Message(err))
}

func TestCLI_SignupValidatesLocally(t *testing.T) {
	pipedPasswords(t)
	server := newServer(t)

	_, err := run(t, server, signupInput("Alice", "31"), "signup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORRECT AGE: 30")

	_, err = run(t, server, signupInput("Alice", "thirty"), "signup")
	require.Error(t, err)
	assert.Equal(t, "Age must be a number between 0 and 120.", err.Error())

	users, err := client.New(server, time.Second).ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCLI_SignupDuplicate(t *testing.T) {
	pipedPasswords(t)
	server := newServer(t)

	_, err := run(t, server, signupInput("Alice", "30"), "signup")
	require.NoError(t, err)

	_, err = run(t, server, signupInput("alice", "30"), "signup")
	require.Error(t, err)
	assert.Equal(t, "User already exists.", client.Message(err))
}

func TestCLI_EditNothingChanged(t *testing.T) {
	pipedPasswords(t)
	server := newServer(t)
	_, err := run(t, server, signupInput("Alice", "30"), "signup")
	require.NoError(t, err)
	id := onlyUserID(t, server)

	out, err := run(t, server, "\n\n\n\n\n", "edit", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to update.")
}

func TestCLI_DeleteCancelled(t *testing.T) {
	pipedPasswords(t)
	server := newServer(t)
	_, err := run(t, server, signupInput("Alice", "30"), "signup")
	require.NoError(t, err)
	id := onlyUserID(t, server)

	out, err := run(t, server, "n\n", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Equal(t, id, onlyUserID(t, server))
}

func TestCLI_Genders(t *testing.T) {
	server := newServer(t)

	out, err := run(t, server, "", "genders")
	require.NoError(t, err)
	assert.Equal(t, "Male\nFemale\nOther\n", out)
}

func TestCLI_ServerDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, err := run(t, url, "", "list")
	require.Error(t, err)
	assert.Equal(t, "server unreachable, check that the API is running", client.Message(err))
}

func TestPickGender(t *testing.T) {
	options := []string{"Male", "Female", "Other"}

	assert.Equal(t, "Female", pickGender("2", options))
	assert.Equal(t, "Other", pickGender("other", options))
	assert.Equal(t, "4", pickGender("4", options))
	assert.Equal(t, "Robot", pickGender("Robot", options))
}
