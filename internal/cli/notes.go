package cli

import (
	"fmt"
	"os"

	"notealog/pkg/domain"

	"github.com/spf13/cobra"
)

var (
	notesFolder  string
	saveTitle    string
	saveContent  string
	saveFromFile string
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List and manage notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, optionally of one folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folders := sess.store.Folders()
		notes := sess.store.Notes()
		if notesFolder != "" {
			f, err := resolveFolder(folders, notesFolder)
			if err != nil {
				return err
			}
			notes = sess.store.NotesInFolder(f.Id)
		}

		for _, n := range notes {
			title := n.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-20s  %s\n", n.Id, folderLabel(folders, n.FolderId), title)
		}
		return nil
	},
}

var notesNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folderID := domain.UnassignedFolderID
		if notesFolder != "" {
			f, err := resolveFolder(sess.store.Folders(), notesFolder)
			if err != nil {
				return err
			}
			folderID = f.Id
		}

		n, err := sess.store.CreateNote(cmd.Context(), folderID)
		if err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "created note %s", n.Id)
		return nil
	},
}

var notesSaveCmd = &cobra.Command{
	Use:   "save <note-id>",
	Short: "Save a note's title and content",
	Long: `Save updates the title and/or content of a note and refreshes its
embedding. Flags that are not given keep their current value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, ok := sess.store.Note(args[0])
		if !ok {
			return domain.Wrap(domain.ErrNotFound, "save note", nil)
		}

		if cmd.Flags().Changed("title") {
			note.Title = saveTitle
		}
		if cmd.Flags().Changed("content") {
			note.Content = saveContent
		}
		if saveFromFile != "" {
			raw, err := os.ReadFile(saveFromFile)
			if err != nil {
				return err
			}
			note.Content = string(raw)
		}

		saved, err := sess.store.SaveNote(cmd.Context(), note)
		if err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "saved %s (embedding %s)", saved.Id, saved.EmbeddingsId)
		return nil
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <note-id>...",
	Short: "Delete notes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := sess.store.DeleteNote(cmd.Context(), args[0]); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "deleted %s", args[0])
			return nil
		}
		return printResult(cmd.OutOrStdout(), "deleted", sess.store.DeleteNotes(cmd.Context(), args))
	},
}

var notesDeleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(cmd.OutOrStdout(), "deleted", sess.store.DeleteAll(cmd.Context()))
	},
}

var notesMoveCmd = &cobra.Command{
	Use:   "move <note-id> <folder>",
	Short: "Move a note to a folder given by id or name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFolder(sess.store.Folders(), args[1])
		if err != nil {
			return err
		}
		if err := sess.store.MoveNote(cmd.Context(), args[0], f.Id); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "moved %s to %s", args[0], f.Name)
		return nil
	},
}

func init() {
	notesListCmd.Flags().StringVarP(&notesFolder, "folder", "f", "", "folder id or name")
	notesNewCmd.Flags().StringVarP(&notesFolder, "folder", "f", "", "folder id or name (default Unassigned)")

	notesSaveCmd.Flags().StringVarP(&saveTitle, "title", "t", "", "new title")
	notesSaveCmd.Flags().StringVarP(&saveContent, "content", "c", "", "new content")
	notesSaveCmd.Flags().StringVar(&saveFromFile, "content-file", "", "read content from a file")
	notesSaveCmd.MarkFlagsMutuallyExclusive("content", "content-file")

	notesCmd.AddCommand(notesListCmd, notesNewCmd, notesSaveCmd, notesDeleteCmd, notesDeleteAllCmd, notesMoveCmd)
	rootCmd.AddCommand(notesCmd)
}
