package main

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do"
	analyticsstore "github.com/serroba/shortcode/internal/analytics/store"
	"github.com/serroba/shortcode/internal/container"
	"github.com/serroba/shortcode/internal/idgen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCommand creates the schema of the configured SQL backend.
// options is read lazily because humacli binds flags only once the command runs.
func migrateCommand(
	options func() *container.Options,
	register func(*do.Injector, *container.Options),
) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema for the configured storage backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options()
			if err := opts.Validate(); err != nil {
				return err
			}

			injector := do.New()
			register(injector, opts)

			defer func() { _ = injector.Shutdown() }()

			logger := do.MustInvoke[*zap.Logger](injector)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			repo, err := do.Invoke[container.Repository](injector)
			if err != nil {
				return err
			}

			if err := repo.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("migrating %s storage: %w", opts.Storage, err)
			}

			logger.Info("schema ready", zap.String("storage", opts.Storage))

			if opts.Analytics != container.StoragePostgres {
				return nil
			}

			events := analyticsstore.NewPostgres(do.MustInvoke[*container.PostgresPool](injector).Pool)
			if err := events.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("migrating analytics storage: %w", err)
			}

			logger.Info("analytics schema ready")

			return nil
		},
	}
}

// inspectCommand decodes a short code into its issuing second, node and sequence.
func inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <code>",
		Short: "Decode a short code into time, node and sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idgen.Parse(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "code:     %s\n", args[0])
			_, _ = fmt.Fprintf(out, "value:    %d\n", int64(id))
			_, _ = fmt.Fprintf(out, "issued:   %s\n", id.Time().Format(time.RFC3339))
			_, _ = fmt.Fprintf(out, "node:     %d\n", id.Node())
			_, _ = fmt.Fprintf(out, "sequence: %d\n", id.Sequence())

			return nil
		},
	}
}
