package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/retailapi/internal/auth"
)

func newTokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for write requests",
		Long: `Token signs a write token with the configured secret
(RETAIL_API_TOKEN_SECRET or --token-secret).

Examples:
  retailapi token --subject warehouse
  retailapi token --subject ci --ttl 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.GenerateToken(cfg.TokenSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&subject, "subject", "s", "operator", "token subject")
	flags.DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	flags.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "signing secret")

	return cmd
}
