package cli

import (
	"fmt"

	"notealog/pkg/domain"
	"notealog/pkg/reconcile"

	"github.com/spf13/cobra"
)

var categorizeAccept bool

var categorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Suggest folders for unassigned notes",
	Long: `Categorize asks the server for a folder suggestion for every note in
Unassigned and prints them. With --accept the suggestions are applied:
missing folders are created once per name and the notes are moved.`,
	Args: cobra.NoArgs,
	RunE: runCategorize,
}

func init() {
	categorizeCmd.Flags().BoolVar(&categorizeAccept, "accept", false, "apply the suggestions")
	rootCmd.AddCommand(categorizeCmd)
}

func runCategorize(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	batch, err := sess.suggestions.SuggestAll(cmd.Context())
	if err != nil {
		return err
	}

	moves := make([]domain.SuggestedMove, 0, len(batch.Suggestions))
	for _, s := range batch.Suggestions {
		title := s.NoteId
		if n, ok := sess.store.Note(s.NoteId); ok && n.Title != "" {
			title = n.Title
		}
		marker := "new"
		if s.SuggestedFolder.Id != nil {
			marker = "existing"
		}
		fmt.Fprintf(w, "%-30s -> %s ", title, s.SuggestedFolder.Name)
		dimColor.Fprintf(w, "(%s)\n", marker)

		moves = append(moves, domain.SuggestedMove{NoteId: s.NoteId, SuggestedFolderName: s.SuggestedFolder.Name})
	}
	for _, f := range batch.Failures {
		warnColor.Fprintf(w, "no suggestion for %s: %s\n", f.NoteId, f.Error)
	}

	if len(moves) == 0 {
		fmt.Fprintln(w, "nothing to categorize")
		return nil
	}
	if !categorizeAccept {
		dimColor.Fprintln(w, "run with --accept to apply")
		return nil
	}

	r := reconcile.New(sess.store,
		reconcile.WithServerEnsure(),
		reconcile.WithLogger(sess.log),
		reconcile.WithLimit(sess.cfg.Ai.CategorizeLimit),
	)
	report := r.Apply(cmd.Context(), moves)
	return printResult(w, "moved", report.Result)
}
