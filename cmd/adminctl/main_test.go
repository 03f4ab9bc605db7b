package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_DRIVER", "memory")
	t.Setenv("STUB_BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("API_PROFILE", "")
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut)
	defer a.close()
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestShellDrivesEmbeddedBackend(t *testing.T) {
	setupEnv(t)
	script := strings.Join([]string{
		"login --email admin@example.com --password admin123",
		`users create --name "Ravi Kumar" --email ravi@example.com --password pw`,
		"users list --status active",
		"admins list",
		"login --as elevated --email root@example.com --password root123",
		"admins list",
		"whoami",
		"events",
		"exit",
	}, "\n") + "\n"

	out, errOut, err := run(t, script, "--embedded", "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "signed in as admin@example.com (admin)")
	assert.Contains(t, out, "Ravi Kumar")
	assert.Contains(t, errOut, "[error] Access denied")
	assert.Contains(t, out, "signed in as root@example.com (super_admin)")
	assert.Contains(t, out, "Admins (1)")
	assert.Contains(t, out, "Super Admin <root@example.com> role=super_admin")
	assert.Contains(t, out, "session_started")
}

func TestCommandsWithoutSession(t *testing.T) {
	setupEnv(t)

	out, _, err := run(t, "", "--embedded", "whoami")
	assert.ErrorIs(t, err, errStopped)
	assert.Contains(t, out, "not signed in")

	_, errOut, err := run(t, "", "--embedded", "dashboard")
	assert.ErrorIs(t, err, errStopped)
	assert.Contains(t, errOut, "signed out; sign in at /admin/login.html")

	_, _, err = run(t, "", "--embedded", "users", "toggle", "abc")
	assert.EqualError(t, err, `invalid id "abc"`)
}

func TestLoginPromptsForPassword(t *testing.T) {
	setupEnv(t)
	out, errOut, err := run(t, "admin123\n", "--embedded", "login", "--email", "admin@example.com")
	require.NoError(t, err)
	assert.Contains(t, errOut, "password: ")
	assert.Contains(t, out, "signed in as admin@example.com")
}

func TestSplitArgs(t *testing.T) {
	args, err := splitArgs(`request POST /admin/create-user --data '{"name": "A B"}'` + "\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"request", "POST", "/admin/create-user", "--data", `{"name": "A B"}`}, args)

	args, err = splitArgs("   \n")
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = splitArgs(`login "unterminated`)
	assert.Error(t, err)
}

func TestCorruptStateFileReadsAsSignedOut(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	t.Setenv("SESSION_DRIVER", "file")
	t.Setenv("SESSION_STATE_FILE", path)

	_, errOut, err := run(t, "", "--embedded", "dashboard")
	assert.ErrorIs(t, err, errStopped)
	assert.Contains(t, errOut, "Please sign in again")
	assert.Contains(t, errOut, "signed out; sign in at /admin/login.html")

	out, _, err := run(t, "", "--embedded", "login", "--email", "admin@example.com", "--password", "admin123")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as admin@example.com")

	out, _, err = run(t, "", "--embedded", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "<admin@example.com>")
}

func TestUnopenableStateFileFallsBackToMemory(t *testing.T) {
	setupEnv(t)
	t.Setenv("SESSION_DRIVER", "file")
	t.Setenv("SESSION_STATE_FILE", t.TempDir())

	script := "login --email admin@example.com --password admin123\nwhoami\nexit\n"
	out, _, err := run(t, script, "--embedded", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as admin@example.com")
	assert.Contains(t, out, "<admin@example.com>")
}

func TestShellShowsActivityLog(t *testing.T) {
	setupEnv(t)
	script := strings.Join([]string{
		"login --email admin@example.com --password admin123",
		`users create --name "Ravi Kumar" --email ravi@example.com --password pw`,
		"login --as elevated --email root@example.com --password root123",
		"logs list",
		"logs clear",
		"exit",
	}, "\n") + "\n"

	out, errOut, err := run(t, script, "--embedded", "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Activity (1)")
	assert.Contains(t, out, "Created user ravi@example.com")
	assert.Contains(t, out+errOut, "Deleted 1 logs")
}
