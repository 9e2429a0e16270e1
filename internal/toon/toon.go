// Package toon renders code objects in TOON (Token-Oriented Object Notation)
// for the ri command.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/rbdoc/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a code object into TOON. Empty scalar fields are omitted;
// the attributes and children tables are always present for namespaces.
func Encode(obj *model.CodeObject) string {
	var parts []string

	field := func(key, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", key, encodeValue(value)))
		}
	}
	field("path", obj.Path())
	field("kind", string(obj.Kind))
	if obj.File != "" {
		field("file", obj.File)
		field("line", strconv.Itoa(obj.Line))
	}
	field("superclass", obj.Superclass)
	field("value", obj.Value)
	field("source", obj.Source)
	field("doc", obj.Docstring)

	if !obj.IsNamespace() {
		return strings.Join(parts, "\n")
	}

	var attrRows [][]string
	for _, name := range obj.AttributeNames() {
		attrRows = append(attrRows, []string{name, access(obj.Attributes[name])})
	}
	parts = append(parts, formatTabular("attributes", []string{"name", "access"}, attrRows))

	var childRows [][]string
	for _, c := range obj.Children() {
		if c.Kind == model.Attribute {
			continue
		}
		childRows = append(childRows, []string{c.Name, string(c.Kind)})
	}
	parts = append(parts, formatTabular("children", []string{"name", "kind"}, childRows))

	return strings.Join(parts, "\n")
}

func access(acc model.Accessors) string {
	switch {
	case acc.Read && acc.Write:
		return "rw"
	case acc.Read:
		return "r"
	case acc.Write:
		return "w"
	}
	return "-"
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
