package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/ptoctl/rippling"
)

var (
	loginToken   string
	loginCompany string
	loginRole    string

	tenantCompany string
	tenantRole    string
)

// loginCmd stores a new authenticated session
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an access token and optional tenant context",
	Long: `Create a session from a Rippling access token and persist it.

The company and role can be given now or set later with 'ptoctl tenant'.`,
	RunE: runLogin,
}

// tenantCmd switches the acting company and role of the stored session
var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Set the company and role used for API calls",
	RunE:  runTenant,
}

// statusCmd shows the stored session
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session and where it is kept",
	RunE:  runStatus,
}

// logoutCmd removes stored credentials
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored session",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVarP(&loginToken, "token", "t", "", "Rippling access token")
	loginCmd.Flags().StringVar(&loginCompany, "company", "", "company ID to act as")
	loginCmd.Flags().StringVar(&loginRole, "role", "", "role ID to act as")
	_ = loginCmd.MarkFlagRequired("token")

	tenantCmd.Flags().StringVar(&tenantCompany, "company", "", "company ID to act as")
	tenantCmd.Flags().StringVar(&tenantRole, "role", "", "role ID to act as")
	_ = tenantCmd.MarkFlagRequired("company")
	_ = tenantCmd.MarkFlagRequired("role")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(tenantCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	token := strings.TrimSpace(loginToken)
	if token == "" {
		return fmt.Errorf("an access token is required")
	}

	session := rippling.NewSession(client, token)
	if loginCompany != "" {
		session.SetCompany(loginCompany)
	}
	if loginRole != "" {
		session.SetRole(loginRole)
	}

	if err := session.Persist(store); err != nil {
		return err
	}

	logger.Info().Str("path", storePath).Msg("Session stored")
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged in")
	if _, ok := session.Role(); !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No role set yet: run 'ptoctl tenant --company <id> --role <id>' before listing leave requests")
	}
	return nil
}

func runTenant(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(tenantCompany) == "" || strings.TrimSpace(tenantRole) == "" {
		return fmt.Errorf("both --company and --role must be non-empty")
	}

	session, err := restoreSession()
	if err != nil {
		return err
	}

	session.SetTenant(tenantCompany, tenantRole)
	if err := session.Persist(store); err != nil {
		return err
	}

	logger.Info().Str("company", tenantCompany).Str("role", tenantRole).Msg("Tenant updated")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Acting as role %s in company %s\n", tenantRole, tenantCompany)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	session, err := restoreSession()
	if errors.Is(err, errNotLoggedIn) {
		fmt.Fprintln(out, "Not logged in")
		fmt.Fprintf(out, "Store: %s (%s)\n", cfg.Credentials.Store, storePath)
		return nil
	}
	if err != nil {
		return err
	}

	state := session.State()
	fmt.Fprintln(out, "Logged in")
	fmt.Fprintf(out, "Token:   %s\n", maskToken(state.AccessToken))
	fmt.Fprintf(out, "Company: %s\n", valueOrUnset(session.Company()))
	fmt.Fprintf(out, "Role:    %s\n", valueOrUnset(session.Role()))
	fmt.Fprintf(out, "API:     %s\n", client.BaseURL())
	fmt.Fprintf(out, "Store:   %s (%s)\n", cfg.Credentials.Store, storePath)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := store.Delete(); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	logger.Info().Str("path", storePath).Msg("Session deleted")
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
	return nil
}

// maskToken keeps the first and last four characters of long tokens
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

func valueOrUnset(value string, ok bool) string {
	if !ok {
		return "(not set)"
	}
	return value
}
