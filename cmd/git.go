package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmowens/promptdeck/internal/git"
	"github.com/kmowens/promptdeck/internal/service"
)

var gitSyncMessage string

var gitCmd = &cobra.Command{
	Use:   "git",
	Short: "Synchronize the library with a git remote",
	Long: `Keep the library directory in a git repository for backup and use
across machines. After setup, run sync after making changes, or set
git.auto_sync in the config to sync after every CLI mutation.`,
}

var gitSetupCmd = &cobra.Command{
	Use:   "setup <repository-url>",
	Short: "Initialize the library as a git repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		if err := svc.InitLibrary(); err != nil {
			return err
		}

		sync := git.NewSync(svc.BaseDir())
		if err := sync.SetupRepository(args[0]); err != nil {
			return err
		}

		fmt.Printf("Library at %s now syncs with %s\n", svc.BaseDir(), args[0])
		return nil
	},
}

var gitSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Commit and push library changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		sync := git.NewSync(svc.BaseDir())
		sync.Initialize()
		if !sync.IsEnabled() {
			return fmt.Errorf("library is not a git repository with a remote (run: promptdeck git setup <url>)")
		}

		if err := sync.SyncChanges(gitSyncMessage); err != nil {
			return err
		}
		fmt.Println("Library synchronized")
		return nil
	},
}

var gitPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull library changes from the remote",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		sync := git.NewSync(svc.BaseDir())
		sync.Initialize()
		if !sync.IsEnabled() {
			return fmt.Errorf("library is not a git repository with a remote (run: promptdeck git setup <url>)")
		}

		if err := sync.PullChanges(); err != nil {
			return err
		}
		fmt.Println("Library up to date")
		return nil
	},
}

var gitStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show library sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		sync := git.NewSync(svc.BaseDir())
		sync.Initialize()
		fmt.Println(sync.Status())
		return nil
	},
}

// syncAfterMutation commits and pushes the library when git auto-sync is
// configured. Failures warn rather than undo the completed mutation.
func syncAfterMutation(svc *service.Service, message string) {
	if cfg == nil || !cfg.Git.AutoSync {
		return
	}

	sync := git.NewSync(svc.BaseDir())
	sync.Initialize()
	if !sync.IsEnabled() {
		return
	}

	if err := sync.SyncChanges(message); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: git sync failed: %v\n", err)
	}
}

func init() {
	rootCmd.AddCommand(gitCmd)
	gitCmd.AddCommand(gitSetupCmd)
	gitCmd.AddCommand(gitSyncCmd)
	gitCmd.AddCommand(gitPullCmd)
	gitCmd.AddCommand(gitStatusCmd)

	gitSyncCmd.Flags().StringVarP(&gitSyncMessage, "message", "m", "Update prompt library",
		"Commit message")
}
