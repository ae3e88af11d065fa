package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"naitive/hub/internal/config"
	"naitive/hub/internal/log"
	"naitive/hub/internal/rag"
)

// probe bundles what every subcommand needs.
type probe struct {
	cfg    *config.Config
	client *rag.Client
	logger zerolog.Logger
	out    io.Writer
}

var errNoToken = errors.New("API token missing: set CLOUDFLARE_API_TOKEN or rag.api_token")

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		p       probe
	)

	root := &cobra.Command{
		Use:   "ragprobe",
		Short: "Seed and query an AutoRAG instance",
		Long: `ragprobe uploads a test document to an R2 bucket and runs search and
ai-search queries against an AutoRAG instance.

Credentials come from CLOUDFLARE_API_TOKEN and CLOUDFLARE_ACCOUNT_ID (or the
rag section of gateway.yaml / HUB_RAG_* variables).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.NewViper(cfgFile))
			if err != nil {
				return err
			}
			if cfg.RAG.APIToken == "" {
				return errNoToken
			}
			if err := cfg.ValidateRAG(); err != nil {
				return err
			}

			log.Configure(log.Config{Level: cfg.Log.Level, Output: cmd.ErrOrStderr(), Service: "ragprobe"})
			p.cfg = cfg
			p.logger = log.WithComponent("ragprobe")
			p.out = cmd.OutOrStdout()
			p.client = rag.NewClient(cfg.RAG.APIBaseURL, cfg.RAG.AccountID, cfg.RAG.APIToken,
				rag.WithTimeout(cfg.RAG.Timeout),
				rag.WithLogger(p.logger),
			)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gateway.yaml)")

	root.AddCommand(
		newUploadCmd(&p),
		newListCmd(&p),
		newSearchCmd(&p),
		newAISearchCmd(&p),
		newRunCmd(&p),
	)
	return root
}

func (p *probe) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}
