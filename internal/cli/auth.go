package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclemark/internal/api"
	"github.com/terraincognita07/cyclemark/internal/config"
	"github.com/terraincognita07/cyclemark/internal/services"
	"golang.org/x/crypto/bcrypt"
)

func addHashPassphrase(topLevel *cobra.Command, _ *commandEnv) {
	cmd := &cobra.Command{
		Use:   "hash-passphrase",
		Short: "Prompt for the owner passphrase and print its bcrypt hash.",
		Example: `
export CYCLEMARK_OWNER_PASSPHRASE_HASH="$(cyclemark hash-passphrase)"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader := newPassphraseReader(cmd.InOrStdin(), cmd.ErrOrStderr())

			passphrase, err := reader.Read("Passphrase: ")
			if err != nil {
				return fmt.Errorf("read passphrase: %w", err)
			}
			if err := services.ValidatePassphraseStrength(passphrase); err != nil {
				return err
			}
			confirmation, err := reader.Read("Repeat passphrase: ")
			if err != nil {
				return fmt.Errorf("read passphrase: %w", err)
			}
			if confirmation != passphrase {
				return errors.New("passphrases do not match")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash passphrase: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addToken(topLevel *cobra.Command, env *commandEnv) {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token signed with the configured secret key.",
		Example: `
cyclemark token --ttl 24h
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ValidateSecretKey(env.cfg.SecretKey); err != nil {
				return err
			}
			token, err := api.IssueOwnerToken([]byte(env.cfg.SecretKey), ttl, time.Now())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 7*24*time.Hour, "token lifetime")

	topLevel.AddCommand(cmd)
}
