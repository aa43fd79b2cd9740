package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/cmd/booknamer/opts"
	"github.com/booklore-app/booknamer/pkg/catalog"
	"github.com/booklore-app/booknamer/pkg/operation"
)

// NewImportCmd creates a new import command
func NewImportCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import MANIFEST",
		Short: "Import book metadata from a YAML or JSON manifest into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := catalog.ReadManifest(args[0])
			if err != nil {
				return err
			}

			_, cat, err := opts.Open(ctx)
			if err != nil {
				return err
			}
			defer cat.Close()

			n, err := cat.Import(ctx, m)
			if err != nil {
				return errors.Errorf("importing %s: %w", args[0], err)
			}

			opts.Logger(ctx).Successf("imported %d books into %s", n, cat.Path())
			return nil
		},
	}

	return cmd
}

// NewPlanCmd creates a new plan command
func NewPlanCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show where every book would move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, cat, err := opts.Open(ctx)
			if err != nil {
				return err
			}
			defer cat.Close()

			op, err := operation.NewPlanOperation(opts.Operation(ctx, cfg, cat, false))
			if err != nil {
				return errors.Errorf("creating plan operation: %w", err)
			}
			return opts.Runner(ctx).Run(ctx, op)
		},
	}

	return cmd
}

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Move books to the paths their pattern gives",
		Long: `Apply moves every book whose planned status is ok. Conflicts and books
without catalog metadata are left alone. Every move is journaled under one
batch so the run can be reversed with undo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, cat, err := opts.Open(ctx)
			if err != nil {
				return err
			}
			defer cat.Close()

			op, err := operation.NewApplyOperation(opts.Operation(ctx, cfg, cat, dryRun))
			if err != nil {
				return errors.Errorf("creating apply operation: %w", err)
			}
			return opts.Runner(ctx).Run(ctx, op)
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report the moves without touching anything")

	return cmd
}

// NewUndoCmd creates a new undo command
func NewUndoCmd(opts *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Reverse the most recent apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, cat, err := opts.Open(ctx)
			if err != nil {
				return err
			}
			defer cat.Close()

			op, err := operation.NewUndoOperation(opts.Operation(ctx, cfg, cat, dryRun))
			if err != nil {
				return errors.Errorf("creating undo operation: %w", err)
			}
			return opts.Runner(ctx).Run(ctx, op)
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report the moves without touching anything")

	return cmd
}
