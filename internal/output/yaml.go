package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

// Format outputs the result as a single YAML document
func (f *YAMLFormatter) Format(res Result, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(res); err != nil {
		return err
	}
	return encoder.Close()
}
