package graphql

// Payload is the JSON body of a GraphQL-over-HTTP POST. A nil Variables map
// is left out of the body; an empty one is sent as {}.
type Payload struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitzero"`
	OperationName string         `json:"operationName,omitempty"`
}
