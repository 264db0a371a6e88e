package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/raborimet/crm-api/internal/apiclient"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	Long: `Sign in with email and password. The returned token and user record are
persisted, so later commands run without logging in again.

Examples:
  raborimet login --email owner@example.com
  raborimet login --email owner@example.com --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			var err error
			password, err = promptPassword("Password: ")
			if err != nil {
				return err
			}
		}

		rt, err := getRuntime()
		if err != nil {
			return err
		}
		resp, err := rt.sessions.Login(cmd.Context(), apiclient.Credentials{
			Email:    email,
			Password: password,
		})
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Printf("Logged in as %s (%s), token valid until %s\n",
			resp.User.Email, resp.User.Role, resp.ExpiresAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			var err error
			password, err = promptPassword("Password: ")
			if err != nil {
				return err
			}
		}

		rt, err := getRuntime()
		if err != nil {
			return err
		}
		resp, err := rt.sessions.Register(cmd.Context(), apiclient.RegisterRequest{
			Email:     email,
			Password:  password,
			FirstName: firstName,
			LastName:  lastName,
		})
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		fmt.Printf("Registered and logged in as %s\n", resp.User.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the token and clear the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if _, ok := rt.sessions.Token(); !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		// Best effort revocation; the local session clears either way.
		if err := rt.client.RevokeToken(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "server-side revocation failed: %v\n", err)
		}
		rt.sessions.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		user, ok := rt.sessions.CurrentUser()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		if done, err := printResult(user); done {
			return err
		}
		fmt.Printf("%s %s <%s>\nrole: %s\n", user.FirstName, user.LastName, user.Email, user.Role)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the stored token against the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if _, ok := rt.sessions.Token(); !ok {
			return fmt.Errorf("no stored token: run 'raborimet login' first")
		}
		user, err := rt.sessions.VerifyToken(cmd.Context())
		if err != nil {
			return fmt.Errorf("token check failed: %w", err)
		}
		fmt.Printf("Token valid for %s (%s)\n", user.Email, user.Role)
		return nil
	},
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")

	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password (prompted when omitted)")
	registerCmd.Flags().String("first-name", "", "first name")
	registerCmd.Flags().String("last-name", "", "last name")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, verifyCmd)
}
