package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/cukefmt/packages/formatter"
	"github.com/xeipuuv/gojsonschema"
)

// formatOptionsSchema describes the options the built-in formatters read.
// Unknown keys are allowed for custom formatters.
const formatOptionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "colorsEnabled": {"type": "boolean"},
    "snippetInterface": {"enum": ["synchronous", "callback", "promise", "async-await", "generator"]},
    "snippetSyntax": {"type": "string", "minLength": 1},
    "printAttachments": {"type": "boolean"},
    "rerun": {
      "type": "object",
      "properties": {"separator": {"type": "string"}},
      "additionalProperties": false
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(formatOptionsSchema)

// ParseFormatOptions validates raw format options JSON and decodes it
func ParseFormatOptions(raw []byte) (formatter.FormatOptions, error) {
	var opts formatter.FormatOptions
	if len(bytes.TrimSpace(raw)) == 0 {
		return opts, nil
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return opts, fmt.Errorf("invalid format options: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return opts, fmt.Errorf("invalid format options: %s", strings.Join(errs, "; "))
	}

	if err := json.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("invalid format options: %w", err)
	}
	return opts, nil
}

// ParsedFormatOptions validates and decodes the configured format options
func (c *Config) ParsedFormatOptions() (formatter.FormatOptions, error) {
	if len(c.FormatOptions) == 0 {
		return formatter.FormatOptions{}, nil
	}
	raw, err := json.Marshal(c.FormatOptions)
	if err != nil {
		return formatter.FormatOptions{}, fmt.Errorf("invalid format options: %w", err)
	}
	return ParseFormatOptions(raw)
}

// Format is one requested formatter and where its output goes
type Format struct {
	Type   string
	Target string // empty means stdout
}

// ParseFormat splits a "type[:target]" value. Colons belonging to a file
// URL scheme or a Windows drive letter are not separators.
func ParseFormat(value string) (Format, error) {
	if value == "" {
		return Format{}, fmt.Errorf("empty format")
	}

	parts := splitColons(value)
	if len(parts) == 1 {
		return Format{Type: parts[0]}, nil
	}
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Format{}, fmt.Errorf("invalid format %q, expected type[:file]", value)
	}
	return Format{Type: parts[0], Target: parts[1]}, nil
}

// splitColons splits on colons, rejoining "file:" prefixes and drive
// letters with what follows them.
func splitColons(value string) []string {
	raw := strings.Split(value, ":")
	var parts []string
	for i := 0; i < len(raw); i++ {
		part := raw[i]
		for i+1 < len(raw) && joinsNext(part, raw[i+1]) {
			i++
			part += ":" + raw[i]
		}
		parts = append(parts, part)
	}
	return parts
}

func joinsNext(part, next string) bool {
	if strings.HasSuffix(part, "file") && strings.HasPrefix(next, "//") {
		return true
	}
	if isDriveLetter(part) && (strings.HasPrefix(next, `\`) || strings.HasPrefix(next, "/")) {
		return true
	}
	return false
}

func isDriveLetter(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
