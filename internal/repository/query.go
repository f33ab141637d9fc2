package repository

import (
	"strings"

	"github.com/sakif/snippet-catalog/internal/model"
)

// likeEscaper escapes LIKE wildcards so user input matches literally.
// Both adapters declare `ESCAPE '\'` next to every LIKE that uses it.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a search query into a lowercase LIKE pattern that
// matches the query anywhere in the (lowercased) column.
func ContainsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

// Assignment is one column = value pair of a code patch UPDATE.
type Assignment struct {
	Column string
	Value  *string // nil writes NULL
}

// CodeAssignments lists the columns a patch touches, in a fixed order.
// Column names come from this fixed set only, never from input, so adapters
// may splice them into SQL text.
func CodeAssignments(p model.CodePatch) []Assignment {
	var out []Assignment
	if p.HTMLCode.Set {
		out = append(out, Assignment{Column: "html_code", Value: p.HTMLCode.Value})
	}
	if p.CSSCode.Set {
		out = append(out, Assignment{Column: "css_code", Value: p.CSSCode.Value})
	}
	if p.JSCode.Set {
		out = append(out, Assignment{Column: "js_code", Value: p.JSCode.Value})
	}
	return out
}
