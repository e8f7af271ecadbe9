package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"financeguard/internal/config"
	"financeguard/internal/gateway"
	"financeguard/internal/server"
	"financeguard/internal/usecase"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "financeguard",
		Short:        "FinanceGuard - failure analytics for retail transaction feeds",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyzeCmd() *cobra.Command {
	var csvPath string
	var asOfRaw string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a transaction feed and print the JSON report",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf := time.Now()
			if asOfRaw != "" {
				parsed, err := time.Parse(time.RFC3339, asOfRaw)
				if err != nil {
					return fmt.Errorf("could not parse as-of time: %w", err)
				}
				asOf = parsed
			}

			logger, err := newLogger("warn")
			if err != nil {
				return err
			}
			defer logger.Sync()

			repo := gateway.NewCSVTransactionRepository()
			session, err := usecase.LoadSession(cmd.Context(), repo, csvPath, logger)
			if err != nil {
				return err
			}

			output, err := json.MarshalIndent(session.Report(asOf), "", "  ")
			if err != nil {
				return fmt.Errorf("could not generate JSON report: %w", err)
			}
			fmt.Println(string(output))
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to the transaction feed CSV (required)")
	cmd.Flags().StringVar(&asOfRaw, "as-of", "", "Evaluation time in RFC 3339 format, defaults to now")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			repo := gateway.NewCSVTransactionRepository()
			session, err := usecase.LoadSession(cmd.Context(), repo, cfg.CSVPath, logger)
			if err != nil {
				return err
			}

			handler := server.NewHandler(session, repo, cfg.CSVPath, logger)
			httpServer := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
				Handler:           server.NewRouter(handler),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("http server listening",
					zap.String("addr", httpServer.Addr),
					zap.String("service", cfg.ServiceName),
				)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				return err
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "financeguard.yaml", "Path to the configuration file")

	return cmd
}

func generateCmd() *cobra.Command {
	var out string
	var records int
	var seed int64
	var endRaw string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a sample transaction feed CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			end := time.Now()
			if endRaw != "" {
				parsed, err := time.Parse(time.RFC3339, endRaw)
				if err != nil {
					return fmt.Errorf("could not parse end time: %w", err)
				}
				end = parsed
			}

			writer := gateway.NewSampleWriter(seed)
			stats, err := writer.Generate(out, records, end)
			if err != nil {
				return err
			}

			fmt.Printf("Generated %d sample transactions and saved to %s\n", stats.Records, out)
			fmt.Printf("Overall failure rate: %.1f%%\n", stats.FailureRatePct)
			fmt.Printf("Number of unique malls: %d\n", stats.UniqueMalls)
			fmt.Printf("Number of unique branches: %d\n", stats.UniqueBranches)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "transactions.csv", "Output CSV path")
	cmd.Flags().IntVar(&records, "records", 10000, "Number of transactions to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed, equal seeds produce identical feeds")
	cmd.Flags().StringVar(&endRaw, "end", "", "Window end time in RFC 3339 format, defaults to now")

	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("could not build logger: %w", err)
	}
	return logger, nil
}
