package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/screen"
	"github.com/mixxbar/mixx/pkg/ui"
)

var (
	accountFirstName   string
	accountLastName    string
	accountEmail       string
	accountNewPassword string
	accountYes         bool
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Change or delete your account",
	Long: `Change your name, email or password, or delete your account. Every change
asks for your current password; pass it with --password or --password-stdin,
or answer the prompt in a terminal.`,
}

var updateNameCmd = &cobra.Command{
	Use:   "update-name",
	Short: "Change your name",
	Args:  cobra.NoArgs,
	RunE:  withApp(runUpdateName),
}

var updateEmailCmd = &cobra.Command{
	Use:   "update-email",
	Short: "Change your email",
	Args:  cobra.NoArgs,
	RunE:  withApp(runUpdateEmail),
}

var updatePasswordCmd = &cobra.Command{
	Use:   "update-password",
	Short: "Change your password",
	Args:  cobra.NoArgs,
	RunE:  withApp(runUpdatePassword),
}

var deleteAccountCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account",
	Args:  cobra.NoArgs,
	RunE:  withApp(runDeleteAccount),
}

func init() {
	for _, cmd := range []*cobra.Command{updateNameCmd, updateEmailCmd, updatePasswordCmd, deleteAccountCmd} {
		cmd.Flags().StringVar(&authPassword, "password", "", "Current password")
		cmd.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "Read the current password from stdin")
		accountCmd.AddCommand(cmd)
	}
	updateNameCmd.Flags().StringVar(&accountFirstName, "first-name", "", "New first name")
	updateNameCmd.Flags().StringVar(&accountLastName, "last-name", "", "New last name")
	updateEmailCmd.Flags().StringVar(&accountEmail, "email", "", "New email")
	updatePasswordCmd.Flags().StringVar(&accountNewPassword, "new-password", "", "New password")
	deleteAccountCmd.Flags().BoolVar(&accountYes, "yes", false, "Delete without asking")

	rootCmd.AddCommand(accountCmd)
}

// accountForm fills v for kind from flags or a prompt and returns the
// account screen to submit it to.
func accountForm(cmd *cobra.Command, a *app, kind ui.FormKind, v *ui.FormValues, complete func() bool, missing string) (*screen.Account, error) {
	if !a.sess.LoggedIn() {
		return nil, api.ErrNotLoggedIn
	}
	password, err := passwordFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	v.Password = password
	if err := fillForm(cmd, kind, v, complete(), missing); err != nil {
		return nil, err
	}
	return screen.NewAccount(a.client, a.sess), nil
}

func runUpdateName(cmd *cobra.Command, _ []string, a *app) error {
	v := ui.FormValues{FirstName: accountFirstName, LastName: accountLastName}
	account, err := accountForm(cmd, a, ui.FormName, &v,
		func() bool { return v.FirstName != "" && v.LastName != "" && v.Password != "" },
		"--first-name, --last-name and --password are required without a terminal")
	if err != nil {
		return err
	}
	if err := account.UpdateName(cmd.Context(), v.FirstName, v.LastName, v.Password); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Name updated.")
	return nil
}

func runUpdateEmail(cmd *cobra.Command, _ []string, a *app) error {
	v := ui.FormValues{Email: accountEmail}
	account, err := accountForm(cmd, a, ui.FormEmail, &v,
		func() bool { return v.Email != "" && v.Password != "" },
		"--email and --password are required without a terminal")
	if err != nil {
		return err
	}
	if err := account.UpdateEmail(cmd.Context(), v.Email, v.Password); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Email updated.")
	return nil
}

func runUpdatePassword(cmd *cobra.Command, _ []string, a *app) error {
	v := ui.FormValues{NewPassword: accountNewPassword, ConfirmPassword: accountNewPassword}
	account, err := accountForm(cmd, a, ui.FormPassword, &v,
		func() bool { return v.NewPassword != "" && v.Password != "" },
		"--password and --new-password are required without a terminal")
	if err != nil {
		return err
	}
	if err := account.UpdatePassword(cmd.Context(), v.PasswordChange()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Password updated.")
	return nil
}

func runDeleteAccount(cmd *cobra.Command, _ []string, a *app) error {
	v := ui.FormValues{Confirm: accountYes}
	account, err := accountForm(cmd, a, ui.FormDelete, &v,
		func() bool { return v.Confirm && v.Password != "" },
		"--password and --yes are required without a terminal")
	if err != nil {
		return err
	}
	if !v.Confirm {
		fmt.Fprintln(cmd.OutOrStdout(), "Account not deleted.")
		return nil
	}
	if err := account.Delete(cmd.Context(), v.Password); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Account deleted.")
	return nil
}
