package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/workforce-console/internal/apiclient"
	"github.com/spec-kit/workforce-console/internal/console"
	"github.com/spec-kit/workforce-console/internal/domain"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Workforce admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.profile, "profile", a.profile, "pin requests to one profile (standard or elevated)")
	root.PersistentFlags().BoolVar(&a.embedded, "embedded", a.embedded, "serve requests from an in-process stub backend")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRequestCmd(a),
		newDashboardCmd(a),
		newUsersCmd(a),
		newAdminsCmd(a),
		newAttendanceCmd(a),
		newCallsCmd(a),
		newPerformanceCmd(a),
		newFollowupsCmd(a),
		newLogsCmd(a),
		newWaitCmd(a),
		newEventsCmd(a),
		newShellCmd(a),
	)
	return root
}

func newLoginCmd(a *app) *cobra.Command {
	var as, email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := domain.ParseProfile(as)
			if err != nil {
				return err
			}
			if email == "" {
				email = a.client.RememberedEmail(cmd.Context())
			}
			if password == "" {
				password, err = a.readLine("password: ")
				if err != nil {
					return err
				}
			}
			identity, err := a.client.Login(cmd.Context(), p, email, password)
			var rejected *apiclient.LoginError
			if errors.As(err, &rejected) || errors.Is(err, apiclient.ErrMissingCredentials) {
				return errStopped
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "signed in as %s (%s)\n", identity.Email, identity.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", string(domain.ProfileStandard), "profile to sign in under")
	cmd.Flags().StringVar(&email, "email", "", "account email; defaults to the last one used")
	cmd.Flags().StringVar(&password, "password", "", "account password; prompted when empty")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard every stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.client.Logout(cmd.Context())
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity := a.client.Identity(cmd.Context())
			if identity == nil {
				fmt.Fprintln(a.out, "not signed in")
				return errStopped
			}
			fmt.Fprintf(a.out, "%s <%s> role=%s\n", identity.Name, identity.Email, identity.Role)
			return nil
		},
	}
}

func newRequestCmd(a *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send an authenticated request and print the body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &apiclient.RequestOptions{Method: strings.ToUpper(args[0])}
			if data != "" {
				if !json.Valid([]byte(data)) {
					return fmt.Errorf("--data is not valid JSON")
				}
				opts.Body = json.RawMessage(data)
			}
			resp := a.client.Request(cmd.Context(), args[1], opts)
			if resp == nil {
				return errStopped
			}
			fmt.Fprintf(a.errOut, "%d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
			fmt.Fprintln(a.out, string(resp.Body))
			if !resp.OK() {
				return errStopped
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON request body")
	return cmd
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show workforce figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if console.NewDashboardManager(a.client, a.renderer).Load(cmd.Context()) == nil {
				return errStopped
			}
			return nil
		},
	}
}

func newUsersCmd(a *app) *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Manage workforce users"}

	var q console.UserQuery
	list := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if console.NewUsersManager(a.client, a.renderer).List(cmd.Context(), q) == nil {
				return errStopped
			}
			return nil
		},
	}
	list.Flags().IntVar(&q.Page, "page", 0, "page number")
	list.Flags().IntVar(&q.PerPage, "per-page", 0, "rows per page")
	list.Flags().StringVar(&q.Search, "search", "", "name or email filter")
	list.Flags().StringVar(&q.Status, "status", "", "all, active or inactive")

	var nu console.NewUser
	create := &cobra.Command{
		Use:  "create",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return stopUnless(console.NewUsersManager(a.client, a.renderer).Create(cmd.Context(), nu))
		},
	}
	create.Flags().StringVar(&nu.Name, "name", "", "full name")
	create.Flags().StringVar(&nu.Email, "email", "", "email address")
	create.Flags().StringVar(&nu.Phone, "phone", "", "phone number")
	create.Flags().StringVar(&nu.Password, "password", "", "initial password")

	toggle := &cobra.Command{
		Use:  "toggle ID",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return stopUnless(console.NewUsersManager(a.client, a.renderer).Toggle(cmd.Context(), id))
		},
	}
	del := &cobra.Command{
		Use:  "delete ID",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return stopUnless(console.NewUsersManager(a.client, a.renderer).Delete(cmd.Context(), id))
		},
	}

	users.AddCommand(list, create, toggle, del)
	return users
}

func newAdminsCmd(a *app) *cobra.Command {
	admins := &cobra.Command{Use: "admins", Short: "Manage admin accounts (elevated profile)"}
	admins.AddCommand(
		&cobra.Command{
			Use:  "list",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if console.NewAdminsManager(a.client, a.renderer).List(cmd.Context()) == nil {
					return errStopped
				}
				return nil
			},
		},
		&cobra.Command{
			Use:  "toggle ID",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return stopUnless(console.NewAdminsManager(a.client, a.renderer).Toggle(cmd.Context(), id))
			},
		},
	)
	return admins
}

func newWaitCmd(a *app) *cobra.Command {
	var path string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until the backend reports ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.WaitReady(cmd.Context(), path, timeout); err != nil {
				return fmt.Errorf("backend not ready: %w", err)
			}
			fmt.Fprintln(a.out, "ready")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "/health/ready", "readiness endpoint")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long")
	return cmd
}

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List session events recorded by this process",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			table := console.Table{Title: "Session events", Columns: []string{"TIME", "EVENT", "PROFILE"}}
			for _, e := range a.audit.Recent() {
				table.Rows = append(table.Rows, []string{e.Timestamp.Local().Format(time.TimeOnly), string(e.Type), string(e.Profile)})
			}
			a.renderer.RenderTable(table)
			return nil
		},
	}
}

func (a *app) readLine(prompt string) (string, error) {
	fmt.Fprint(a.errOut, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func stopUnless(ok bool) error {
	if !ok {
		return errStopped
	}
	return nil
}
