package graphql

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Document is a pre-validated GraphQL query document. The executor only
// needs its canonical text.
type Document interface {
	Serialize() (string, error)
}

// Query is document text that has already been rendered.
type Query string

// Serialize returns q trimmed of surrounding whitespace.
func (q Query) Serialize() (string, error) {
	text := strings.TrimSpace(string(q))
	if text == "" {
		return "", fmt.Errorf("query text is empty")
	}
	return text, nil
}

// ASTDocument renders a gqlparser query document.
type ASTDocument struct {
	Doc *ast.QueryDocument
}

// FromAST wraps a parsed gqlparser document.
func FromAST(doc *ast.QueryDocument) *ASTDocument {
	return &ASTDocument{Doc: doc}
}

// Serialize prints the document with two-space indentation.
func (d *ASTDocument) Serialize() (text string, err error) {
	if d == nil || d.Doc == nil {
		return "", fmt.Errorf("query document is nil")
	}
	if len(d.Doc.Operations) == 0 {
		return "", fmt.Errorf("query document has no operations")
	}

	// the formatter panics on selection kinds it does not know
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("format query document: %v", r)
		}
	}()

	var buf bytes.Buffer
	formatter.NewFormatter(&buf, formatter.WithIndent("  ")).FormatQueryDocument(d.Doc)
	return strings.TrimSpace(buf.String()), nil
}
