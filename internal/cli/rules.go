package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/emailqa/internal/rules"
)

// rulesCmd groups the rule file commands
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage client rule files",
	Long: `Client rules live in one JSON file per client (<client_key>.json) in the
rules directory (rules.dir in the config, or --rules-dir).`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients that have rule files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newRuleStore()
		if err != nil {
			return err
		}
		clients, err := store.Clients()
		if err != nil {
			return err
		}
		if len(clients) == 0 {
			fmt.Fprintf(os.Stderr, "No rule files in %s\n", store.Dir())
			return nil
		}
		for _, c := range clients {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <client>",
	Short: "Print a client's rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newRuleStore()
		if err != nil {
			return err
		}
		schema, err := store.Load(args[0])
		if err != nil {
			return err
		}
		inspectOut = ""
		return writeJSON(cmd, schema)
	},
}

var rulesInitCmd = &cobra.Command{
	Use:   "init <client>",
	Short: "Create a starter rule file for a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newRuleStore()
		if err != nil {
			return err
		}

		_, err = store.Load(args[0])
		switch {
		case err == nil:
			return fmt.Errorf("rules already exist: %s", store.Path(args[0]))
		case !errors.Is(err, rules.ErrNoRules):
			return err
		}

		if err := store.Save(rules.DefaultSchema(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", store.Path(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesInitCmd)
}

func newRuleStore() (*rules.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return rules.NewStore(cfg.Rules.Dir, 0, newLogger()), nil
}
