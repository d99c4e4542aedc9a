package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c360studio/govspec/config"
)

func initCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold the governance store in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()

			configPath := filepath.Join(cfg.Paths.GovRoot, "config.yaml")
			if flags.configPath != "" {
				configPath = flags.configPath
			}
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("already initialized: %s exists", configPath)
			}

			for _, dir := range []string{cfg.RFCDir(), cfg.ADRDir(), cfg.WorkDir(), cfg.Paths.DocsOutput} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", dir, err)
				}
			}
			if err := cfg.SaveToFile(configPath); err != nil {
				return err
			}

			success("initialized governance store in %s", cfg.Paths.GovRoot)
			fmt.Printf("config written to %s\n", configPath)
			return nil
		},
	}
}
