package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mixxbar/mixx/pkg/screen"
	"github.com/mixxbar/mixx/pkg/ui"
)

var (
	authEmail         string
	authPassword      string
	authPasswordStdin bool
	authFirstName     string
	authLastName      string
	whoamiHistory     int
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your Mixx account",
	Long: `Log in and remember the session for later commands and the interactive
interface. Missing values are prompted for when running in a terminal.`,
	Args: cobra.NoArgs,
	RunE: withApp(runLogin),
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a Mixx account and log in",
	Args:  cobra.NoArgs,
	RunE:  withApp(runSignup),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	Args:  cobra.NoArgs,
	RunE:  withApp(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who is logged in",
	Args:  cobra.NoArgs,
	RunE:  withApp(runWhoami),
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, signupCmd} {
		cmd.Flags().StringVar(&authEmail, "email", "", "Account email")
		cmd.Flags().StringVar(&authPassword, "password", "", "Account password")
		cmd.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "Read the password from stdin")
	}
	signupCmd.Flags().StringVar(&authFirstName, "first-name", "", "First name")
	signupCmd.Flags().StringVar(&authLastName, "last-name", "", "Last name")
	whoamiCmd.Flags().IntVar(&whoamiHistory, "history", 0, "Also list the last N logins and logouts")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}

// passwordFromFlags resolves --password and --password-stdin.
func passwordFromFlags(cmd *cobra.Command) (string, error) {
	if authPasswordStdin {
		return readSecret(cmd.InOrStdin())
	}
	return authPassword, nil
}

func runLogin(cmd *cobra.Command, _ []string, a *app) error {
	password, err := passwordFromFlags(cmd)
	if err != nil {
		return err
	}
	v := ui.FormValues{Email: authEmail, Password: password}
	if err := fillForm(cmd, ui.FormLogin, &v, v.Email != "" && v.Password != "",
		"--email and --password (or --password-stdin) are required without a terminal"); err != nil {
		return err
	}

	account := screen.NewAccount(a.client, a.sess)
	user, err := account.Login(cmd.Context(), v.Email, v.Password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s.\n", user.FirstName)
	return nil
}

func runSignup(cmd *cobra.Command, _ []string, a *app) error {
	password, err := passwordFromFlags(cmd)
	if err != nil {
		return err
	}
	v := ui.FormValues{
		Email:           authEmail,
		Password:        password,
		ConfirmPassword: password,
		FirstName:       authFirstName,
		LastName:        authLastName,
	}
	complete := v.Email != "" && v.Password != "" && v.FirstName != "" && v.LastName != ""
	if !complete {
		v.ConfirmPassword = ""
	}
	if err := fillForm(cmd, ui.FormSignup, &v, complete,
		"--email, --password, --first-name and --last-name are required without a terminal"); err != nil {
		return err
	}

	account := screen.NewAccount(a.client, a.sess)
	user, err := account.Signup(cmd.Context(), v.Signup())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s.\n", user.FirstName)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string, a *app) error {
	if !a.sess.LoggedIn() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}
	if err := screen.NewAccount(a.client, a.sess).Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string, a *app) error {
	out := cmd.OutOrStdout()
	st := a.sess.State()
	if st.LoggedIn {
		fmt.Fprintf(out, "%s (user %s)\n", st.DisplayName(), st.UserID)
	} else {
		fmt.Fprintln(out, "Not logged in.")
	}
	if whoamiHistory <= 0 {
		return nil
	}

	events, err := a.store.Events(cmd.Context(), whoamiHistory)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{e.CreatedAt.Local().Format(time.DateTime), e.Kind, e.UserID})
	}
	fmt.Fprintln(out)
	writeTable(out, []string{"WHEN", "EVENT", "USER"}, rows)
	return nil
}
