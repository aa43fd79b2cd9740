package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/cmd/booknamer/opts"
	"github.com/booklore-app/booknamer/pkg/naming"
	"github.com/booklore-app/booknamer/pkg/pattern"
	"github.com/booklore-app/booknamer/pkg/status"
)

// NewResolveCmd creates a new resolve command
func NewResolveCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve PATTERN [FIELD=VALUE...]",
		Short: "Resolve a pattern against field values",
		Long: `Resolve expands PATTERN with the given values and prints the result.
Fields left out are treated as missing, so optional blocks fall back.

  booknamer resolve '{authors:sort}/<{series} #{seriesIndex} - >{title}' \
    authors='Frank Herbert' title=Dune`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(args[1:])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(opts.Out, pattern.Resolve(args[0], values))
			return err
		},
	}

	return cmd
}

// parseValues reads FIELD=VALUE arguments
func parseValues(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, errors.Errorf("invalid value %q, expected FIELD=VALUE", arg)
		}
		values[field] = value
	}
	return values, nil
}

// NewValidateCmd creates a new validate command
func NewValidateCmd(opts *opts.RootOpts) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "validate PATTERN...",
		Short: "Check patterns for unknown fields, modifiers and characters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger(cmd.Context())
			validator := pattern.NewValidator(append(append([]string{}, naming.Fields...), fields...)...)

			invalid := 0
			for _, p := range args {
				if err := validator.Validate(p); err != nil {
					invalid++
					logger.Error(err.Error())
					continue
				}
				logger.Successf("%q is valid", p)
			}

			if invalid > 0 {
				return errors.Errorf("%d of %d patterns are invalid", invalid, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&fields, "field", nil, "additional field names to accept")

	return cmd
}

// NewPreviewCmd creates a new preview command
func NewPreviewCmd(opts *opts.RootOpts) *cobra.Command {
	var keepExt bool

	cmd := &cobra.Command{
		Use:   "preview PATTERN NAME...",
		Short: "Show what a pattern reads from sample file names",
		Long: `Preview extracts field values from each NAME using PATTERN, resolves them
again and reports whether the name round trips. Use it to check a pattern
before importing a folder of files named by another tool.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := pattern.NewExtractor(args[0])
			if err != nil {
				return errors.Errorf("compiling pattern: %w", err)
			}

			results := make([]pattern.PreviewResult, 0, len(args)-1)
			for _, name := range args[1:] {
				if !keepExt {
					name = strings.TrimSuffix(name, filepath.Ext(name))
				}
				results = append(results, ex.Preview(name))
			}

			return status.RenderPreview(opts.Out, results)
		},
	}
	cmd.Flags().BoolVar(&keepExt, "keep-ext", false, "match names including their extension")

	return cmd
}
