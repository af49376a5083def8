package pyast

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two documentable definition forms.
type Kind string

const (
	KindClass    Kind = "class"
	KindFunction Kind = "function"
)

// LineRange is an inclusive 1-based line span inside the owning source buffer.
type LineRange struct {
	Start int
	End   int
}

// Definition is the structural record for one class or function definition.
// Line positions are only valid for the exact source text the definition was
// parsed from; any edit to that text invalidates them.
type Definition struct {
	Kind          Kind
	Name          string
	Signature     string     // normalized parameter list (functions) or base list (classes)
	Ancestry      []string   // enclosing definition names, outermost first
	StartLine     int        // line of the def/class keyword
	EndLine       int        // last line of the definition
	HeaderEndLine int        // first line of the body
	IndentWidth   int        // leading spaces of the first body statement
	DocRange      *LineRange // existing docstring block, nil if none
	Doc           string     // docstring content without delimiters
}

// Key identifies the same logical definition across independently parsed
// trees. Line positions are deliberately excluded: they are unstable across
// edits and across differently derived trees.
type Key struct {
	Name      string
	Signature string
	Ancestry  string // enclosing definition names joined with "."
}

// Key computes the identity key of the definition.
func (d *Definition) Key() Key {
	return Key{
		Name:      d.Name,
		Signature: d.Signature,
		Ancestry:  strings.Join(d.Ancestry, "."),
	}
}

func (k Key) String() string {
	if k.Ancestry == "" {
		return fmt.Sprintf("%s(%s)", k.Name, k.Signature)
	}
	return fmt.Sprintf("%s.%s(%s)", k.Ancestry, k.Name, k.Signature)
}

// Tree holds the definitions of one parsed source text in document order.
type Tree struct {
	Definitions []*Definition
}

// FindFirst returns the first definition in document order whose key equals
// key, or nil when the tree has no such definition. First occurrence wins on
// duplicate keys (shadowed or redefined names).
func (t *Tree) FindFirst(key Key) *Definition {
	for _, d := range t.Definitions {
		if d.Key() == key {
			return d
		}
	}
	return nil
}
