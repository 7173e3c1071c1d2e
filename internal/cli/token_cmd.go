package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/authenticating"
)

func newTokenCmd(d *deps) *cobra.Command {
	var (
		name    string
		role    string
		expires time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token signed with SECRET_KEY",
		Example: `  adsctl token --name ana --role viewer
  adsctl token --name ops --role admin --expires 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roleID, err := parseRole(role)
			if err != nil {
				return err
			}

			cfg, err := d.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			signed, err := authenticating.NewService(cfg).IssueToken(name, roleID, expires)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd, map[string]string{
					"token": signed,
					"name":  name,
					"role":  domain.RoleName(roleID),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Operator name (JWT sub claim)")
	cmd.Flags().StringVar(&role, "role", "viewer", "Operator role (admin, viewer)")
	cmd.Flags().DurationVar(&expires, "expires", 0, "Token expiry duration (default AUTH_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func parseRole(role string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin":
		return domain.RoleAdmin, nil
	case "viewer":
		return domain.RoleViewer, nil
	default:
		return 0, fmt.Errorf("unknown role %q: use 'admin' or 'viewer'", role)
	}
}
