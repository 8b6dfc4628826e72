package cli

import (
	"context"
	"fmt"
	"os"

	"notealog/internal/config"
	"notealog/internal/pkg/logger"
	"notealog/pkg/domain"
	"notealog/pkg/embedding"
	"notealog/pkg/notestore"
	"notealog/pkg/persistence"

	"github.com/spf13/cobra"
)

// suggestionSource is the server's batch categorization endpoint.
type suggestionSource interface {
	SuggestAll(ctx context.Context) (persistence.BatchSuggestions, error)
}

// session is what every command works against: a store loaded from the
// server at startup.
type session struct {
	cfg         *config.Config
	log         logger.ILogger
	store       *notestore.Store
	suggestions suggestionSource
}

var (
	apiURL       string
	embeddingURL string
	sess         *session
)

// openSession builds the session; tests replace it.
var openSession = func(ctx context.Context, cfg *config.Config) (*session, error) {
	log := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	remote := persistence.NewClient(cfg.Client.APIURL)
	store := notestore.New(remote, embedding.NewClient(cfg.Ai.EmbeddingServiceURL), notestore.WithLogger(log))
	return &session{cfg: cfg, log: log, store: store, suggestions: remote}, nil
}

var rootCmd = &cobra.Command{
	Use:   "notealog",
	Short: "Notes with AI-suggested folders",
	Long: `notealog manages notes and folders stored by the notealog server and asks
the categorization endpoints where unassigned notes belong.

Example usage:
  notealog folders create Work
  notealog notes new --folder Work
  notealog categorize --accept`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if apiURL != "" {
			cfg.Client.APIURL = apiURL
		}
		if embeddingURL != "" {
			cfg.Ai.EmbeddingServiceURL = embeddingURL
		}

		s, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if err := s.store.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load notes: %w", err)
		}
		sess = s
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for caller mistakes (bad or taken name, reserved folder)
// and 1 otherwise.
func exitCode(err error) int {
	if domain.IsValidation(err) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "notealog server API URL (default from NOTEALOG_API_URL)")
	rootCmd.PersistentFlags().StringVar(&embeddingURL, "embeddings", "", "embedding service URL (default from EMBEDDING_SERVICE_URL)")
}
