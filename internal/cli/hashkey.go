package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/ratelens/internal/api/middleware"
	"github.com/spf13/cobra"
)

var hashKeyCmd = &cobra.Command{
	Use:   "hash-key [key]",
	Short: "Print the bcrypt hash to set as ADMIN_KEY_HASH",
	Long:  "Hash-key bcrypt-hashes an admin key. With no argument the key is read from the first line of stdin, which keeps it out of shell history.",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		if len(args) == 1 {
			key = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return usageError{errors.New("no key given on the command line or stdin")}
			}
			key = strings.TrimRight(line, "\r\n")
		}
		if strings.TrimSpace(key) == "" {
			return usageError{errors.New("admin key must not be empty")}
		}

		hash, err := middleware.HashAdminKey(key)
		if err != nil {
			return fmt.Errorf("hashing key: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
