package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/saturnines/nexus-gql/pkg/config"
	"github.com/saturnines/nexus-gql/pkg/core"
	"github.com/saturnines/nexus-gql/pkg/errors"
	"github.com/saturnines/nexus-gql/pkg/transport/graphql"
)

type execFlags struct {
	configPath string
	endpoint   string
	query      string
	operation  string
	vars       []string
	varsJSON   string
	headers    []string
	timeout    time.Duration
	selectPath string
	envFiles   []string
}

var errInterrupted = fmt.Errorf("interrupted")

// notifyInterrupt is signal.Notify, swapped out in tests.
var notifyInterrupt = signal.Notify

func newExecCmd(a *app) *cobra.Command {
	f := &execFlags{}
	cmd := &cobra.Command{
		Use:   "exec [query-file]",
		Short: "Execute one GraphQL operation",
		Long: `Execute one GraphQL operation and print the response body.

The document comes from the query-file argument, --query, or the profile's
query/query_file, in that order. Variables from --vars-json are applied
before --var, and both override the profile's variables.`,
		Example: `  gqlexec exec --endpoint https://example.com/graphql --query '{ hello }'
  gqlexec exec -c profile.yaml --var id=123 --select data.user.name
  gqlexec exec -c profile.yaml queries/GetUser.graphql --timeout 5s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execCommand(cmd.Context(), f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML profile")
	fl.StringVarP(&f.endpoint, "endpoint", "e", "", "GraphQL endpoint URL (overrides the profile)")
	fl.StringVarP(&f.query, "query", "q", "", "inline query document")
	fl.StringVarP(&f.operation, "operation", "o", "", "operation name to run")
	fl.StringArrayVar(&f.vars, "var", nil, "variable as key=value (string value, repeatable)")
	fl.StringVar(&f.varsJSON, "vars-json", "", "variables as a JSON object")
	fl.StringArrayVarP(&f.headers, "header", "H", nil, "extra default header as 'Name: value' (repeatable)")
	fl.DurationVar(&f.timeout, "timeout", 0, "fail the request after this long (0 = no limit)")
	fl.StringVar(&f.selectPath, "select", "", "print only this gjson path of the response body")
	fl.StringArrayVar(&f.envFiles, "env-file", nil, "load environment from these files (default .env if present)")
	return cmd
}

func (a *app) execCommand(ctx context.Context, f *execFlags, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := loadEnv(f.envFiles); err != nil {
		return withExitCode(ExitConfigError, err)
	}

	profile, err := buildProfile(f)
	if err != nil {
		return err
	}

	conn, err := core.NewConnector(profile)
	if err != nil {
		return err
	}

	doc, err := pickDocument(conn, f, args)
	if err != nil {
		return err
	}

	opts, err := requestOptions(f)
	if err != nil {
		return err
	}

	a.logger.Debug("dispatching graphql request",
		"endpoint", conn.Executor().URL(),
		"profile", profile.Name,
		"operation", firstNonEmpty(f.operation, profile.OperationName),
	)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	call, err := conn.Execute(ctx, doc, opts...)
	if err != nil {
		return err
	}

	stopAbort := abortOnInterrupt(call)
	defer stopAbort()

	resp, err := call.Wait()
	if err != nil {
		a.logger.Debug("graphql request failed", "err", err, "elapsed", time.Since(start))
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return withExitCode(ExitNetworkError, fmt.Errorf("read response body: %w", err))
	}
	a.logger.Debug("graphql response received",
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start),
	)

	a.printStatus(resp)
	return a.printBody(body, f.selectPath)
}

// abortOnInterrupt aborts call when the process receives SIGINT.
func abortOnInterrupt(call *graphql.Call) func() {
	sig := make(chan os.Signal, 1)
	notifyInterrupt(sig, os.Interrupt)

	go func() {
		select {
		case <-sig:
			call.Abort(errInterrupted)
		case <-call.Done():
		}
	}()

	return func() { signal.Stop(sig) }
}

func loadEnv(files []string) error {
	if len(files) > 0 {
		return godotenv.Load(files...)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// buildProfile merges the flags over the profile file and validates the
// result, so --endpoint can fill in a profile without one.
func buildProfile(f *execFlags) (*config.Profile, error) {
	loader := config.DefaultLoader()

	var p *config.Profile
	if f.configPath != "" {
		loaded, err := loader.Read(f.configPath)
		if err != nil {
			return nil, err
		}
		p = loaded
	} else {
		p = &config.Profile{Name: "cli"}
		(&config.ProfileDefaults{}).SetDefaults(p)
	}

	// Flags win over the file
	if f.endpoint != "" {
		p.Endpoint = strings.TrimSpace(f.endpoint)
	}
	if p.Endpoint == "" {
		return nil, usageError("no endpoint: pass --endpoint or --config")
	}

	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, usageError("invalid --header %q, want 'Name: value'", h)
		}
		if p.Headers == nil {
			p.Headers = make(map[string]string)
		}
		p.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if err := loader.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func pickDocument(conn *core.Connector, f *execFlags, args []string) (graphql.Document, error) {
	switch {
	case len(args) == 1:
		return core.LoadDocument(args[0])
	case f.query != "":
		return core.ParseDocument("--query", f.query)
	default:
		return conn.Document()
	}
}

func requestOptions(f *execFlags) ([]graphql.ExecuteOption, error) {
	var opts []graphql.ExecuteOption

	if f.varsJSON != "" {
		var vars map[string]any
		if err := json.Unmarshal([]byte(f.varsJSON), &vars); err != nil {
			return nil, usageError("invalid --vars-json: %v", err)
		}
		if vars == nil {
			return nil, usageError("invalid --vars-json: must be a JSON object")
		}
		opts = append(opts, graphql.WithVariables(vars))
	}
	for _, kv := range f.vars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, usageError("invalid --var %q, want key=value", kv)
		}
		opts = append(opts, graphql.WithVariable(k, v))
	}
	if f.operation != "" {
		opts = append(opts, graphql.WithOperationName(f.operation))
	}
	return opts, nil
}

func (a *app) printStatus(resp *http.Response) {
	paint := color.New(color.FgGreen).SprintFunc()
	if resp.StatusCode >= 400 {
		paint = color.New(color.FgRed).SprintFunc()
	} else if resp.StatusCode >= 300 {
		paint = color.New(color.FgYellow).SprintFunc()
	}
	fmt.Fprintf(a.stderr, "%s %s\n", paint(resp.Status), resp.Header.Get("Content-Type"))
}

func (a *app) printBody(body []byte, path string) error {
	if path == "" {
		_, err := a.stdout.Write(body)
		if err == nil && len(body) > 0 && body[len(body)-1] != '\n' {
			_, err = io.WriteString(a.stdout, "\n")
		}
		return err
	}

	if !gjson.ValidBytes(body) {
		return withExitCode(ExitRequestError, fmt.Errorf("--select: response body is not JSON"))
	}
	res := gjson.GetBytes(body, path)
	if !res.Exists() {
		return withExitCode(ExitRequestError, fmt.Errorf("--select: path %q not found in response", path))
	}
	if res.Type == gjson.String {
		_, err := fmt.Fprintln(a.stdout, res.String())
		return err
	}
	_, err := fmt.Fprintln(a.stdout, res.Raw)
	return err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
