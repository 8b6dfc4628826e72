package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List and manage folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders with their note counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, f := range sess.store.Folders() {
			n := len(sess.store.NotesInFolder(f.Id))
			if f.IsReserved() {
				dimColor.Fprintf(w, "%-36s  %s (%d)\n", f.Id, f.Name, n)
				continue
			}
			fmt.Fprintf(w, "%-36s  %s (%d)\n", f.Id, f.Name, n)
		}
		return nil
	},
}

var foldersCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := sess.store.CreateFolder(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "created %s (%s)", f.Name, f.Id)
		return nil
	},
}

var foldersRenameCmd = &cobra.Command{
	Use:   "rename <folder> <new-name>",
	Short: "Rename a folder given by id or name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFolder(sess.store.Folders(), args[0])
		if err != nil {
			return err
		}
		if err := sess.store.RenameFolder(cmd.Context(), f.Id, args[1]); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "renamed %s to %s", f.Name, args[1])
		return nil
	},
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete <folder>",
	Short: "Delete a folder and every note in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFolder(sess.store.Folders(), args[0])
		if err != nil {
			return err
		}
		if err := sess.store.DeleteFolder(cmd.Context(), f.Id); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "deleted %s", f.Name)
		return nil
	},
}

func init() {
	foldersCmd.AddCommand(foldersListCmd, foldersCreateCmd, foldersRenameCmd, foldersDeleteCmd)
	rootCmd.AddCommand(foldersCmd)
}
