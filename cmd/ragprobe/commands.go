package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"naitive/hub/internal/rag"
)

// defaultQueries exercise the sections of the bundled test document.
var defaultQueries = []string{
	"What is NAItive and what services do they offer?",
	"How do I authenticate with the NAItive API?",
	"What are the main features of the workflow builder?",
	"What are best practices for data security?",
	"How do I troubleshoot authentication errors?",
}

func newUploadCmd(p *probe) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document to the configured R2 bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = p.cfg.RAG.DocumentKey
			}
			return p.upload(cmd.Context(), args[0], key)
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "object key (default: rag.document_key)")
	return cmd
}

func newListCmd(p *probe) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List AutoRAG instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := p.list(cmd.Context())
			return err
		},
	}
}

func newSearchCmd(p *probe) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Run a retrieval-only query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return p.search(cmd.Context(), args[0])
		},
	}
}

func newAISearchCmd(p *probe) *cobra.Command {
	return &cobra.Command{
		Use:   "ai-search <query>",
		Short: "Run a query answered by the instance's model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return p.aiSearch(cmd.Context(), args[0])
		},
	}
}

func newRunCmd(p *probe) *cobra.Command {
	var (
		testOnly bool
		file     string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Upload the test document, or with --test-only run the test queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = p.cfg.RAG.Document
			}
			if testOnly {
				return p.runQueries(cmd.Context())
			}
			if err := p.upload(cmd.Context(), file, p.cfg.RAG.DocumentKey); err != nil {
				return fmt.Errorf("upload failed (check the file exists and the token has R2 permissions): %w", err)
			}
			p.printManualSteps()
			return nil
		},
	}
	cmd.Flags().BoolVar(&testOnly, "test-only", false, "skip the upload and run the test queries")
	cmd.Flags().StringVar(&file, "file", "", "document to upload (default: rag.document)")
	return cmd
}

func (p *probe) upload(ctx context.Context, path, key string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	if err := p.client.UploadObject(ctx, p.cfg.RAG.Bucket, key, "text/markdown", body); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	p.printf("uploaded %s to bucket %s (%d bytes)\n", key, p.cfg.RAG.Bucket, len(body))
	return nil
}

func (p *probe) list(ctx context.Context) ([]rag.Instance, error) {
	instances, err := p.client.ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	p.printf("found %d AutoRAG instances\n", len(instances))
	for _, inst := range instances {
		p.printf("  - %s (source %s)\n", inst.ID, inst.Source)
	}
	return instances, nil
}

func (p *probe) ranking() *rag.RankingOptions {
	return &rag.RankingOptions{ScoreThreshold: p.cfg.RAG.ScoreThreshold}
}

func (p *probe) search(ctx context.Context, query string) error {
	res, err := p.client.Search(ctx, p.cfg.RAG.Name, rag.SearchRequest{
		Query:          query,
		MaxNumResults:  p.cfg.RAG.MaxResults,
		RankingOptions: p.ranking(),
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return p.printResult("search", res)
}

func (p *probe) aiSearch(ctx context.Context, query string) error {
	res, err := p.client.AISearch(ctx, p.cfg.RAG.Name, rag.AISearchRequest{
		Query:          query,
		Model:          p.cfg.RAG.Model,
		MaxNumResults:  p.cfg.RAG.AIMaxResults,
		RankingOptions: p.ranking(),
	})
	if err != nil {
		return fmt.Errorf("ai-search: %w", err)
	}
	return p.printResult("ai-search", res)
}

func (p *probe) printResult(kind string, res *rag.SearchResult) error {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	p.printf("%s results:\n%s\n", kind, out)
	return nil
}

// runQueries lists instances then runs every default query both ways. A
// failing query is logged and the run continues.
func (p *probe) runQueries(ctx context.Context) error {
	if _, err := p.list(ctx); err != nil {
		p.logger.Error().Err(err).Msg("listing instances failed")
	}

	p.printf("running %d test queries\n", len(defaultQueries))
	failed := 0
	for _, q := range defaultQueries {
		p.printf("\n--- Query: %s ---\n", q)
		if err := p.aiSearch(ctx, q); err != nil {
			failed++
			p.logger.Error().Err(err).Str("query", q).Msg("ai-search query failed")
		}
		if err := p.search(ctx, q); err != nil {
			failed++
			p.logger.Error().Err(err).Str("query", q).Msg("search query failed")
		}
	}
	p.logger.Info().Int("queries", len(defaultQueries)).Int("failed", failed).Msg("AutoRAG testing complete")
	return nil
}

func (p *probe) printManualSteps() {
	steps := []string{
		"Go to: https://dash.cloudflare.com/?to=/:account/ai/autorag",
		`Click "Create AutoRAG"`,
		fmt.Sprintf("Select R2 bucket: %q", p.cfg.RAG.Bucket),
		"Choose embedding model (default recommended)",
		"Choose LLM model (default recommended)",
		"Create or select AI Gateway",
		fmt.Sprintf("Name your AutoRAG: %q", p.cfg.RAG.Name),
		"Create Service API token (if needed)",
		`Click "Create" and wait for indexing to complete`,
		"Re-run with --test-only",
	}
	p.printf("\nMANUAL STEPS REQUIRED:\n")
	for i, s := range steps {
		p.printf("%d. %s\n", i+1, s)
	}
}
