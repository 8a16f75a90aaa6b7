package cli

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var outputJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// textWriter is implemented by views with a human readable rendering.
type textWriter interface {
	writeText(w io.Writer) error
}

// OutputFormatter writes views in the configured format.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func (f OutputFormatter) Write(view textWriter) error {
	switch f.Format {
	case formatJSON:
		data, err := outputJSON.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(f.Writer, string(data))

		return err

	case formatYAML:
		encoder := yaml.NewEncoder(f.Writer)
		encoder.SetIndent(2)

		if err := encoder.Encode(view); err != nil {
			return err
		}

		return encoder.Close()

	default:
		return view.writeText(f.Writer)
	}
}

// compactJSON renders a document on one line for text output.
func compactJSON(document any) string {
	data, err := outputJSON.Marshal(document)
	if err != nil {
		return fmt.Sprintf("%v", document)
	}

	return string(data)
}
