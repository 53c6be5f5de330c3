package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ailysom/ras-chat/internal/auth"
	cfgpkg "github.com/Ailysom/ras-chat/internal/config"
)

// NewTokenCommand constructs the `token` command group.
func NewTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{Use: "token", Short: "Token operations"}
	tokenCmd.AddCommand(newTokenIssueCommand())
	return tokenCmd
}

// newTokenIssueCommand constructs the `token issue` subcommand. It mints a
// signed token locally from the same config the server reads, so operators
// can hand out credentials without a running server.
func newTokenIssueCommand() *cobra.Command {
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a signed bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			subject, _ := cmd.Flags().GetString("subject")
			roles, _ := cmd.Flags().GetUint32("roles")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			if cfg.Auth.Secret == "" {
				return fmt.Errorf("no signing secret; set auth.secret in config or RASCHAT_AUTH_SECRET")
			}

			v := auth.NewVerifier(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL))
			var tok string
			if ttl > 0 {
				tok, err = v.IssueWithTTL(subject, roles, ttl)
			} else {
				tok, err = v.Issue(subject, roles)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	issueCmd.Flags().String("config", "", "Config file path (JSON)")
	issueCmd.Flags().String("subject", "", "Token subject (user identity)")
	issueCmd.Flags().Uint32("roles", 1, "Role bitmask")
	issueCmd.Flags().Duration("ttl", 0, "Token lifetime (default from config)")
	return issueCmd
}
