package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/convention-query-builder-go/example/users"
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder/postgresengine"
)

var ErrUnfilteredUpdate = errors.New("update has no filter and would change every document of the entity: pass --all to execute it")

// ResolveOptions holds the flags of the resolve command.
type ResolveOptions struct {
	SQL     bool
	Execute bool
	All     bool
	Table   string
	EnvFile string
}

type resolutionView struct {
	Method       string           `json:"method" yaml:"method"`
	Convention   string           `json:"convention" yaml:"convention"`
	Filter       map[string]any   `json:"filter,omitempty" yaml:"filter,omitempty"`
	Update       map[string]any   `json:"update,omitempty" yaml:"update,omitempty"`
	SQL          string           `json:"sql,omitempty" yaml:"sql,omitempty"`
	Documents    []map[string]any `json:"documents,omitempty" yaml:"documents,omitempty"`
	RowsAffected *int64           `json:"rowsAffected,omitempty" yaml:"rowsAffected,omitempty"`
}

func (v resolutionView) writeText(w io.Writer) error {
	lines := []string{
		fmt.Sprintf("method:     %s", v.Method),
		fmt.Sprintf("convention: %s", v.Convention),
	}

	if v.Filter != nil {
		lines = append(lines, fmt.Sprintf("filter:     %s", compactJSON(v.Filter)))
	}

	if v.Update != nil {
		lines = append(lines, fmt.Sprintf("update:     %s", compactJSON(v.Update)))
	}

	if v.SQL != "" {
		lines = append(lines, fmt.Sprintf("sql:        %s", v.SQL))
	}

	if v.RowsAffected != nil {
		lines = append(lines, fmt.Sprintf("rows:       %d", *v.RowsAffected))
	}

	for _, document := range v.Documents {
		lines = append(lines, fmt.Sprintf("document:   %s", compactJSON(document)))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <Method> [args...]",
		Short: "Resolve one UserQueries method call into filter and update documents",
		Long: `Resolve one UserQueries method call into filter and update documents.

With --execute the resolution runs against PostgreSQL. An update without a filter,
e.g. SetStatusTo, changes every document of the entity, so executing it requires --all.`,
		Example: `  querybuilder resolve FindByEmailEqualTo jane@example.com
  querybuilder resolve FindByStatusIn active,locked --sql
  querybuilder resolve IncrementLoginsBy 1 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, rootOpts, opts, args[0], args[1:])
		},
	}

	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "render the PostgreSQL statement for the resolution")
	cmd.Flags().BoolVar(&opts.Execute, "execute", false, "execute the statement against PostgreSQL ("+PostgresDSNEnv+")")
	cmd.Flags().BoolVar(&opts.All, "all", false, "allow --execute of an update without a filter")
	cmd.Flags().StringVar(&opts.Table, "table", "documents", "documents table name")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "optional env file to load before reading the DSN")

	return cmd
}

func runResolve(cmd *cobra.Command, rootOpts *RootOptions, opts *ResolveOptions, methodName string, rawArgs []string) error {
	registry, err := rootOpts.newRegistry(cmd)
	if err != nil {
		return err
	}

	method, err := users.Declaration.Method(methodName)
	if err != nil {
		return err
	}

	args, err := convertArgs(method, rawArgs)
	if err != nil {
		return err
	}

	invocation, err := querybuilder.NewInvocationFor(users.Declaration, methodName, args...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resolution, err := registry.Resolve(ctx, invocation)
	if err != nil {
		return err
	}

	view := resolutionView{
		Method:     resolution.Method().QualifiedName(),
		Convention: resolution.Convention(),
	}

	if resolution.HasFilter() {
		view.Filter = resolution.Filter().Document()
	}

	if resolution.HasUpdate() {
		view.Update = resolution.Update().Document()
	}

	if opts.SQL {
		view.SQL, err = postgresengine.NewStatements(opts.Table).ForResolution(resolution)
		if err != nil {
			return err
		}
	}

	if opts.Execute {
		if resolution.HasUpdate() && !resolution.HasFilter() && !opts.All {
			return ErrUnfilteredUpdate
		}

		if err = executeResolution(ctx, cmd, rootOpts, opts, resolution, &view); err != nil {
			return err
		}
	}

	return OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}.Write(view)
}

func executeResolution(
	ctx context.Context,
	cmd *cobra.Command,
	rootOpts *RootOptions,
	opts *ResolveOptions,
	resolution querybuilder.Resolution,
	view *resolutionView,
) error {
	dsn, err := postgresDSN(opts.EnvFile)
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	options := []postgresengine.Option{postgresengine.WithTableName(opts.Table)}
	if logger := rootOpts.logger(cmd.ErrOrStderr()); logger != nil {
		options = append(options, postgresengine.WithLogger(logger))
	}

	store, err := postgresengine.NewDocumentStoreFromPGXPool(pool, options...)
	if err != nil {
		return err
	}

	if err = store.EnsureTable(ctx); err != nil {
		return err
	}

	result, err := store.Execute(ctx, resolution)
	if err != nil {
		return err
	}

	if resolution.HasUpdate() {
		rowsAffected := result.RowsAffected
		view.RowsAffected = &rowsAffected

		return nil
	}

	for _, document := range result.Documents {
		var decoded map[string]any
		if err = document.Decode(&decoded); err != nil {
			return err
		}

		view.Documents = append(view.Documents, decoded)
	}

	return nil
}
