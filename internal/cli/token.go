package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"superoutine/pkg/config"
	"superoutine/pkg/rbac"
	"superoutine/pkg/util"
)

func newTokenCmd() *cobra.Command {
	var (
		user   string
		role   string
		secret string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = config.GetEnv("JWT_SECRET", "")
			}
			return runToken(cmd.OutOrStdout(), user, role, secret, ttl)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id (uuid)")
	cmd.Flags().StringVar(&role, "role", rbac.RoleUser, "role claim: user, guest or admin")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default: $JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runToken(w io.Writer, user, role, secret string, ttl time.Duration) error {
	if secret == "" {
		return fmt.Errorf("no signing secret: pass --secret or set JWT_SECRET")
	}
	if rbac.NormalizeRole(role) != role {
		return fmt.Errorf("unknown role %q", role)
	}
	tok, err := util.GenerateJWT(user, role, secret, ttl)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, tok)
	return nil
}
