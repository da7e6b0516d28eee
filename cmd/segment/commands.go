package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tcgen/internal/chunker"
	"tcgen/internal/config"
	"tcgen/internal/contextutil"
	"tcgen/internal/extract"
	"tcgen/internal/scan"
	"tcgen/internal/segment"
	"tcgen/internal/storage"
)

var errBatchFailures = errors.New("some files could not be segmented")

// segmentFlags are the per-run overrides shared by all subcommands.
type segmentFlags struct {
	mode      string
	chunkSize int
	overlap   int
	output    string
}

func newRootCommand() *cobra.Command {
	flags := &segmentFlags{}
	cmd := &cobra.Command{
		Use:           "segment",
		Short:         "Split extracted document text into overlapping chunks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.mode, "mode", "", "Segmentation mode (fixed or sections); defaults to CHUNK_MODE")
	cmd.PersistentFlags().IntVar(&flags.chunkSize, "chunk-size", 0, "Target chunk size in characters; defaults to CHUNK_SIZE")
	cmd.PersistentFlags().IntVar(&flags.overlap, "overlap", 0, "Overlap in characters; defaults to CHUNK_OVERLAP")
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "text", "Output format (text or json)")
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		switch flags.output {
		case "text", "json":
			return nil
		default:
			return fmt.Errorf("unknown output format %q (want text or json)", flags.output)
		}
	}

	cmd.AddCommand(newTextCommand(flags))
	cmd.AddCommand(newFilesCommand(flags))
	return cmd
}

func newTextCommand(flags *segmentFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "text [file]",
		Short: "Segment text read from a file or stdin",
		Long: `Segment the text of a file, or of stdin when no file (or "-") is given.
PDF and DOCX files are extracted first; a document that cannot be read
is logged and segmented as empty text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cmd.ErrOrStderr(), cfg)
			ctx := contextutil.WithLogger(cmd.Context(), logger)

			text, err := readText(ctx, cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			// Raw text is segmented without touching the database.
			pipeline := segment.NewPipeline(nil, nil, nil, pipelineConfig(cfg))
			result, err := pipeline.ProcessText(ctx, segment.TextRequest{
				Text:    text,
				Options: flags.options(cmd),
			})
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), flags.output, result)
		},
	}
}

func newFilesCommand(flags *segmentFlags) *cobra.Command {
	var (
		workers int
		exclude []string
	)
	cmd := &cobra.Command{
		Use:   "files <path>...",
		Short: "Segment PDF and DOCX files and store the chunks",
		Long: `Scan the given files and directories for PDF and DOCX documents,
segment them concurrently and store documents and chunks in DB_PATH.
Documents already stored with the same content and settings are reused.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cmd.ErrOrStderr(), cfg)
			ctx := contextutil.WithLogger(cmd.Context(), logger)

			files, err := scan.Scan(ctx, args, exclude)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no PDF or DOCX files found")
				return nil
			}

			db, err := storage.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			if err := storage.Migrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			pcfg := pipelineConfig(cfg)
			if cmd.Flags().Changed("workers") {
				pcfg.Workers = workers
			}
			pipeline := segment.NewPipeline(storage.NewDocumentRepo(db), storage.NewChunkRepo(db), nil, pcfg)

			opts := flags.options(cmd)
			reqs := make([]segment.FileRequest, len(files))
			for i, f := range files {
				reqs[i] = segment.FileRequest{Path: f.AbsPath, FileName: f.RelPath, Options: opts}
			}

			results, err := pipeline.ProcessFiles(ctx, reqs)
			if err != nil {
				return err
			}
			return writeBatch(cmd.OutOrStdout(), flags.output, results)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", segment.DefaultWorkers, "Number of files processed concurrently; defaults to WORKERS")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "Glob patterns of files to skip, matched against the relative path and base name")
	return cmd
}

// readText returns the text to segment: stdin, a plain text file, or the
// extracted text of a PDF or DOCX file.
func readText(ctx context.Context, stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(raw), nil
	}

	path := args[0]
	if _, err := extract.ParseFormat(path); err == nil {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("failed to open %s: %w", path, err)
		}
		return extract.TextOrEmpty(ctx, path), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	return string(raw), nil
}

// options returns the overrides for flags the user actually set.
func (f *segmentFlags) options(cmd *cobra.Command) segment.Options {
	var opts segment.Options
	if f.mode != "" {
		opts.Mode = chunker.Mode(strings.ToLower(f.mode))
	}
	if cmd.Flags().Changed("chunk-size") {
		size := f.chunkSize
		opts.ChunkSize = &size
	}
	if cmd.Flags().Changed("overlap") {
		overlap := f.overlap
		opts.Overlap = &overlap
	}
	return opts
}

func pipelineConfig(cfg *config.Config) segment.Config {
	return segment.Config{
		Mode:    cfg.ChunkMode,
		Params:  cfg.ChunkParams(),
		Workers: cfg.Workers,
	}
}

// setupLogger installs a stderr logger so stdout stays machine readable.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func writeResult(w io.Writer, output string, result *segment.Result) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text":
		for _, c := range result.Chunks {
			fmt.Fprintf(w, "--- chunk %d (%d chars) ---\n%s\n", c.Index, c.CharCount, c.Text)
		}
		s := result.Stats
		fmt.Fprintf(w, "--- %d chunks, mode %s, size %d, overlap %d, mean %.2f chars, ~%d tokens ---\n",
			s.Chunks, result.Mode, result.Params.ChunkSize, result.Params.Overlap, s.MeanChars, s.EstimatedTokens)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", output)
	}
}

// batchEntry is the JSON shape of one batch result.
type batchEntry struct {
	File   string          `json:"file"`
	Result *segment.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func writeBatch(w io.Writer, output string, results []segment.FileResult) error {
	var failed int
	entries := make([]batchEntry, len(results))
	for i, r := range results {
		entries[i] = batchEntry{File: r.Path, Result: r.Result}
		if r.Result != nil {
			entries[i].File = r.Result.FileName
		}
		if r.Err != nil {
			entries[i].Error = r.Err.Error()
			failed++
		}
	}

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tSTATUS\tCHUNKS\tDOCUMENT")
		for _, e := range entries {
			switch {
			case e.Error != "":
				fmt.Fprintf(tw, "%s\tfailed\t-\t%s\n", e.File, e.Error)
			case e.Result.Reused:
				fmt.Fprintf(tw, "%s\treused\t%d\t%s\n", e.File, len(e.Result.Chunks), e.Result.DocumentID)
			default:
				fmt.Fprintf(tw, "%s\tstored\t%d\t%s\n", e.File, len(e.Result.Chunks), e.Result.DocumentID)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", output)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errBatchFailures, failed, len(results))
	}
	return nil
}
