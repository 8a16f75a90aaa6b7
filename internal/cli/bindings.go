package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type bindingView struct {
	Method     string   `json:"method" yaml:"method"`
	Entity     string   `json:"entity" yaml:"entity"`
	Convention string   `json:"convention" yaml:"convention"`
	Shadowed   []string `json:"shadowed,omitempty" yaml:"shadowed,omitempty"`
}

type bindingsView struct {
	Policy   string        `json:"policy" yaml:"policy"`
	Bindings []bindingView `json:"bindings" yaml:"bindings"`
}

func (v bindingsView) writeText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "policy: %s\n", v.Policy); err != nil {
		return err
	}

	for _, binding := range v.Bindings {
		line := fmt.Sprintf("%-45s -> %s", binding.Method, binding.Convention)
		if len(binding.Shadowed) > 0 {
			line += " (shadows " + strings.Join(binding.Shadowed, ", ") + ")"
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// NewBindingsCommand creates the bindings command.
func NewBindingsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bindings",
		Short: "Print the binding table of the users module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := rootOpts.newRegistry(cmd)
			if err != nil {
				return err
			}

			table, err := registry.Bindings()
			if err != nil {
				return err
			}

			view := bindingsView{Policy: table.Policy().String()}
			for _, entry := range table.Entries() {
				view.Bindings = append(view.Bindings, bindingView{
					Method:     entry.Descriptor().Method().QualifiedName(),
					Entity:     entry.Descriptor().Entity().String(),
					Convention: entry.Convention().Name(),
					Shadowed:   entry.Shadowed(),
				})
			}

			return OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}.Write(view)
		},
	}
}
