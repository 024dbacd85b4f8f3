package core

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/saturnines/nexus-gql/pkg/errors"
	"github.com/saturnines/nexus-gql/pkg/transport/graphql"
)

// ParseDocument parses src so syntax errors surface before anything is
// sent. name is used in error positions.
func ParseDocument(name, src string) (graphql.Document, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: src})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrSerialization, "parse query")
	}
	return graphql.FromAST(doc), nil
}
