// Package render writes similarity search results in the supported output
// formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/apptype"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/store"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// Format is an output format name.
type Format string

const (
	FormatParameter Format = "parameter"
	FormatConsole   Format = "console"
	FormatJSON      Format = "json"
	FormatYAML      Format = "yaml"
)

// maxPropertiesWidth bounds the properties column of the console format.
const maxPropertiesWidth = 119

// Formats lists the accepted format names.
func Formats() []Format {
	return []Format{FormatParameter, FormatConsole, FormatJSON, FormatYAML}
}

// ParseFormat validates name; the empty string selects the parameter format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return FormatParameter, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", vecerr.New(vecerr.CodeCLIInputInvalid, fmt.Sprintf("unknown output format %q", name),
		vecerr.Field("format", name))
}

// Write renders result to w. Only the named properties are printed, in the
// given order.
func Write(w io.Writer, format Format, result store.SimilarityResult, properties []string) error {
	switch format {
	case FormatParameter, "":
		return writeParameter(w, result, properties)
	case FormatConsole:
		return writeConsole(w, result, properties)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(apptype.NewSearchResult(result, properties))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(apptype.NewSearchResult(result, properties)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return vecerr.New(vecerr.CodeCLIInputInvalid, fmt.Sprintf("unknown output format %q", format),
			vecerr.Field("format", string(format)))
	}
}

// writeParameter prints a Cypher map literal usable as a shell parameter:
// {records:[{__elementId__:"4:..",name:"cat",__similarity__:0.93}]}
func writeParameter(w io.Writer, result store.SimilarityResult, properties []string) error {
	records := make([]string, 0, len(result))
	for _, m := range result {
		fields := []string{"__elementId__:" + strconv.Quote(m.Node.ElementID)}
		for _, name := range properties {
			literal, ok := cypherLiteral(m.Node.Properties.Get(name))
			if !ok {
				continue
			}
			fields = append(fields, mapKey(name)+":"+literal)
		}
		fields = append(fields, "__similarity__:"+formatScore(m.Score))
		records = append(records, "{"+strings.Join(fields, ",")+"}")
	}
	_, err := fmt.Fprintf(w, "{records:[%s]}\n", strings.Join(records, ","))
	return err
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func writeConsole(w io.Writer, result store.SimilarityResult, properties []string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Labels", "Properties", "Similarity").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, m := range result {
		t.Row(
			"["+strings.Join(m.Node.Labels, ", ")+"]",
			truncate(propertyList(m.Node.Properties, properties), maxPropertiesWidth),
			formatScore(m.Score),
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// propertyList renders the named properties as [name=cat, age=3].
func propertyList(props graph.Properties, names []string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		text, ok := props.Get(name).Text()
		if !ok {
			continue
		}
		parts = append(parts, name+"="+text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func cypherLiteral(v graph.Value) (string, bool) {
	switch x := v.(type) {
	case graph.String:
		return strconv.Quote(string(x)), true
	case graph.Null:
		return "", false
	default:
		return v.Text()
	}
}

var plainKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func mapKey(name string) string {
	if plainKey.MatchString(name) {
		return name
	}
	q, err := graph.QuoteIdentifier(name)
	if err != nil {
		return name
	}
	return q
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 32)
}
