package core

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnines/nexus-gql/pkg/config"
	"github.com/saturnines/nexus-gql/pkg/errors"
	"github.com/saturnines/nexus-gql/pkg/transport/graphql"
)

func TestNewConnector_FromYAML(t *testing.T) {
	var gotHeader http.Header
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"data":{"user":{"name":"Ada"}}}`))
	}))
	defer srv.Close()

	yamlContent := `
name: users
endpoint: ` + srv.URL + `
headers:
  X-Client: nexus-gql
cache: no-store
auth:
  type: bearer
  bearer:
    token: tok
query: "query GetUser($id: ID!) { user(id: $id) { name } }"
operation_name: GetUser
variables:
  id: "1"
`
	p, err := config.DefaultLoader().Parse([]byte(yamlContent))
	require.NoError(t, err)

	c, err := NewConnector(p)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, c.Executor().URL())
	assert.Same(t, p, c.Profile())

	doc, err := c.Document()
	require.NoError(t, err)

	call, err := c.Execute(context.Background(), doc, graphql.WithVariable("id", "2"))
	require.NoError(t, err)
	resp, err := call.Wait()
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.JSONEq(t, `{"data":{"user":{"name":"Ada"}}}`, string(body))
	assert.Equal(t, "Bearer tok", gotHeader.Get("Authorization"))
	assert.Equal(t, "nexus-gql", gotHeader.Get("X-Client"))
	assert.Equal(t, "no-store", gotHeader.Get("Cache-Control"))
	assert.Equal(t, "GetUser", gotPayload["operationName"])
	assert.Equal(t, map[string]any{"id": "2"}, gotPayload["variables"])
}

func TestConnector_ExecuteKeepsProfileOperation(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	p, err := config.DefaultLoader().Parse([]byte(`
name: countries
endpoint: ` + srv.URL + `
query: "query GetCountry($code: ID!) { country(code: $code) { name } }"
operation_name: GetCountry
`))
	require.NoError(t, err)
	assert.Contains(t, p.Query, "($code: ID!)")

	c, err := NewConnector(p)
	require.NoError(t, err)
	doc, err := c.Document()
	require.NoError(t, err)

	call, err := c.Execute(context.Background(), doc, graphql.WithOperationName(""))
	require.NoError(t, err)
	resp, err := call.Wait()
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "GetCountry", gotPayload["operationName"])
	assert.Contains(t, gotPayload["query"], "$code")
}

func TestOptionsFromProfile(t *testing.T) {
	p := &config.Profile{
		Headers:     map[string]string{"X-A": "1"},
		Cache:       config.CacheReload,
		Credentials: config.CredentialsOmit,
	}
	opts, err := OptionsFromProfile(p)
	require.NoError(t, err)
	assert.Equal(t, graphql.CacheReload, opts.Cache)
	assert.Equal(t, graphql.CredentialsOmit, opts.Credentials)
	assert.Nil(t, opts.Auth)

	opts.Headers["X-B"] = "2"
	assert.Len(t, p.Headers, 1, "profile headers must be copied")
}

func TestNewConnector_Errors(t *testing.T) {
	_, err := NewConnector(nil)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))

	_, err = NewConnector(&config.Profile{Endpoint: "https://a.example/graphql", Auth: &config.Auth{Type: "oauth2"}})
	assert.True(t, errors.Is(err, errors.ErrConfiguration))

	_, err = NewConnector(&config.Profile{Endpoint: "a.example/graphql"})
	assert.True(t, errors.Is(err, errors.ErrInvalidEndpoint))
}

func TestConnector_Document(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.graphql")
	require.NoError(t, os.WriteFile(path, []byte("query Hello { hello }"), 0o600))

	c, err := NewConnector(&config.Profile{Name: "x", Endpoint: "https://a.example/graphql", QueryFile: path})
	require.NoError(t, err)
	doc, err := c.Document()
	require.NoError(t, err)
	text, err := doc.Serialize()
	require.NoError(t, err)
	assert.Contains(t, text, "query Hello")

	c, err = NewConnector(&config.Profile{Name: "x", Endpoint: "https://a.example/graphql"})
	require.NoError(t, err)
	_, err = c.Document()
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestParseDocument_SyntaxError(t *testing.T) {
	_, err := ParseDocument("broken.graphql", "query { hello ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSerialization))
	assert.Contains(t, err.Error(), "broken.graphql")
}
