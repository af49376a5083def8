// Package pyast parses Python source text into a flat, document-ordered list
// of class and function definitions with the positional metadata needed to
// splice docstrings back into the original text.
package pyast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax marks source or generated text that fails to parse. Fatal for the
// affected file or snippet; callers skip it rather than retry.
var ErrSyntax = errors.New("python syntax error")

// Parse builds the definition tree for src. It is a pure function over the
// source text.
func Parse(src []byte) (*Tree, error) {
	root, tsTree, err := parseRoot(src)
	if err != nil {
		return nil, err
	}
	defer tsTree.Close()

	t := &Tree{}
	collectDefinitions(root, src, nil, t)
	return t, nil
}

// HasDefinitions reports whether src contains at least one class or function
// definition. Used as a short-circuit before any generation call.
func HasDefinitions(src []byte) (bool, error) {
	t, err := Parse(src)
	if err != nil {
		return false, err
	}
	return len(t.Definitions) > 0, nil
}

func parseRoot(src []byte) (*sitter.Node, *sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, nil, fmt.Errorf("%w: no parse tree produced", ErrSyntax)
	}
	if root.HasError() {
		tree.Close()
		return nil, nil, fmt.Errorf("%w: source contains syntax errors", ErrSyntax)
	}
	return root, tree, nil
}

// collectDefinitions walks the tree in document order. Ancestry collects only
// definition parents, so control-flow nesting (if/try/with) is transparent.
func collectDefinitions(node *sitter.Node, src []byte, ancestry []string, out *Tree) {
	switch node.Type() {
	case "class_definition", "function_definition":
		def := buildDefinition(node, src, ancestry)
		if def == nil {
			return
		}
		out.Definitions = append(out.Definitions, def)
		if body := node.ChildByFieldName("body"); body != nil {
			child := append(append([]string{}, ancestry...), def.Name)
			for i := 0; i < int(body.NamedChildCount()); i++ {
				collectDefinitions(body.NamedChild(i), src, child, out)
			}
		}
	case "decorated_definition":
		if inner := node.ChildByFieldName("definition"); inner != nil {
			collectDefinitions(inner, src, ancestry, out)
		}
	default:
		for i := 0; i < int(node.NamedChildCount()); i++ {
			collectDefinitions(node.NamedChild(i), src, ancestry, out)
		}
	}
}

func buildDefinition(node *sitter.Node, src []byte, ancestry []string) *Definition {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	def := &Definition{
		Name:      nameNode.Content(src),
		Ancestry:  append([]string{}, ancestry...),
		StartLine: int(node.StartPoint().Row + 1),
		EndLine:   int(node.EndPoint().Row + 1),
	}

	switch node.Type() {
	case "class_definition":
		def.Kind = KindClass
		def.Signature = normalizeBases(node.ChildByFieldName("superclasses"), src)
	default:
		def.Kind = KindFunction
		def.Signature = normalizeParams(node.ChildByFieldName("parameters"), src)
	}

	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		// Headers without a body statement cannot carry a docstring.
		def.HeaderEndLine = def.EndLine + 1
		def.IndentWidth = int(node.StartPoint().Column) + 4
		return def
	}

	first := body.NamedChild(0)
	def.HeaderEndLine = int(first.StartPoint().Row + 1)
	def.IndentWidth = int(first.StartPoint().Column)

	if str := docstringNode(first); str != nil {
		def.DocRange = &LineRange{
			Start: int(first.StartPoint().Row + 1),
			End:   int(first.EndPoint().Row + 1),
		}
		def.Doc = cleanDocstring(str.Content(src))
	}
	return def
}

// docstringNode returns the string node when stmt is a docstring statement.
func docstringNode(stmt *sitter.Node) *sitter.Node {
	if stmt.Type() != "expression_statement" || stmt.NamedChildCount() == 0 {
		return nil
	}
	if str := stmt.NamedChild(0); str.Type() == "string" {
		return str
	}
	return nil
}

// normalizeParams renders a parameter list as names and defaults only. Type
// annotations are dropped so that a generated header with or without them
// still produces the same identity key.
func normalizeParams(params *sitter.Node, src []byte) string {
	if params == nil {
		return ""
	}

	var parts []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			parts = append(parts, p.Content(src))
		case "default_parameter", "typed_default_parameter":
			name := p.ChildByFieldName("name")
			value := p.ChildByFieldName("value")
			if name == nil {
				continue
			}
			if value != nil {
				parts = append(parts, name.Content(src)+"="+value.Content(src))
			} else {
				parts = append(parts, name.Content(src))
			}
		case "typed_parameter":
			// The pattern child carries the name; the type child is dropped.
			for j := 0; j < int(p.NamedChildCount()); j++ {
				c := p.NamedChild(j)
				if c.Type() == "identifier" || c.Type() == "list_splat_pattern" || c.Type() == "dictionary_splat_pattern" {
					parts = append(parts, c.Content(src))
					break
				}
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			parts = append(parts, p.Content(src))
		case "positional_separator":
			parts = append(parts, "/")
		case "keyword_separator":
			parts = append(parts, "*")
		}
	}
	return strings.Join(parts, ", ")
}

// normalizeBases renders a class base list as ordered identifiers. Attribute
// accesses keep their last segment, subscripts and calls their base name.
// Bases with no extractable identifier are dropped; classes remain matchable
// by name and ancestry alone.
func normalizeBases(superclasses *sitter.Node, src []byte) string {
	if superclasses == nil {
		return ""
	}

	var parts []string
	for i := 0; i < int(superclasses.NamedChildCount()); i++ {
		if name := baseIdentifier(superclasses.NamedChild(i), src); name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

func baseIdentifier(node *sitter.Node, src []byte) string {
	switch node.Type() {
	case "identifier":
		return node.Content(src)
	case "attribute":
		full := node.Content(src)
		if dot := strings.LastIndex(full, "."); dot >= 0 {
			return full[dot+1:]
		}
		return full
	case "subscript", "call":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if name := baseIdentifier(node.NamedChild(i), src); name != "" {
				return name
			}
		}
	}
	return ""
}

// cleanDocstring strips the quote delimiters and normalizes indentation, the
// way ast.get_docstring cleans extracted docstrings.
func cleanDocstring(raw string) string {
	// Strip string prefixes (r, b, f, u) before the opening quote.
	for len(raw) > 0 && raw[0] != '"' && raw[0] != '\'' {
		raw = raw[1:]
	}
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) >= 2*len(q) {
			raw = raw[len(q) : len(raw)-len(q)]
			break
		}
	}
	return dedent(raw)
}

func dedent(text string) string {
	lines := strings.Split(text, "\n")
	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}
	if margin > 0 {
		for i, line := range lines[1:] {
			if len(line) >= margin {
				lines[i+1] = line[margin:]
			} else {
				lines[i+1] = strings.TrimLeft(line, " \t")
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
