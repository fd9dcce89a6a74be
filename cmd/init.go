package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new element library",
	Long: `Create the library directory with empty element and history tables.
Running init on an existing library is harmless: tables that already
exist are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		if err := svc.InitLibrary(); err != nil {
			return fmt.Errorf("failed to initialize library: %w", err)
		}
		fmt.Printf("Initialized promptdeck library at %s\n", svc.BaseDir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
