package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
	"github.com/carepoint/portal-client/internal/core/service"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	Long: `Sign in with email and password. The password may also be given in
PORTAL_PASSWORD so it does not end up in shell history.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the persisted session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return portal.Auth.Logout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user's profile",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	password := loginPassword
	if password == "" {
		password = os.Getenv("PORTAL_PASSWORD")
	}
	sess, err := portal.Auth.Login(cmd.Context(), ports.LoginInput{Email: loginEmail, Password: password})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, sess.User)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s %s (%s)\n",
		sess.User.FirstName, sess.User.LastName, strings.Join(sess.User.Roles, ", "))
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(cmd.OutOrStdout(), "session expires %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	u, err := portal.Auth.Profile(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, u)
	}
	return printTable(cmd, []string{"ID", "NAME", "EMAIL", "ROLES"}, [][]any{
		{u.UserID, u.FirstName + " " + u.LastName, u.Email, strings.Join(u.Roles, ",")},
	})
}

// describe renders err for a terminal user.
func describe(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return "invalid input: " + ve.Error()
	case service.IsAuthError(err):
		return "not signed in or session expired, run portalctl login"
	case errors.Is(err, domain.ErrDeclined):
		var ne *domain.NormalizationError
		if errors.As(err, &ne) {
			return ne.Reason
		}
	}
	return err.Error()
}
