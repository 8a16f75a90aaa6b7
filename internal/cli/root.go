package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/convention-query-builder-go/example/users"
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{formatText, formatJSON, formatYAML}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string
}

// NewRootCommand creates the root command of the querybuilder CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "querybuilder",
		Short: "Inspect and run convention based query builders",
		Long: `Inspect and run the query builders of the users example module.

Query builder methods are bound to conventions by their names. The CLI shows
the binding table and resolves single method calls into filter and update documents,
optionally rendering or executing them against PostgreSQL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log registry and store operations to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", formatText, "output format (text|json|yaml)")

	cmd.AddCommand(NewBindingsCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))

	return cmd
}

// logger returns a debug logger writing to w when verbose output is requested, otherwise nil.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	if !o.Verbose {
		return nil
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (o *RootOptions) newRegistry(cmd *cobra.Command) (*querybuilder.Registry, error) {
	var options []querybuilder.Option
	if logger := o.logger(cmd.ErrOrStderr()); logger != nil {
		options = append(options, querybuilder.WithLogger(logger))
	}

	return users.NewRegistry(options...)
}
