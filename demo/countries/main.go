package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/saturnines/nexus-gql/pkg/config"
	"github.com/saturnines/nexus-gql/pkg/core"
	"github.com/saturnines/nexus-gql/pkg/transport/graphql"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Info(".env file not loaded", "err", err)
	}

	profile, err := config.DefaultLoader().Load("demo/countries/countries.yaml")
	if err != nil {
		fatal(logger, "load profile", err)
	}

	conn, err := core.NewConnector(profile)
	if err != nil {
		fatal(logger, "create connector", err)
	}

	doc, err := conn.Document()
	if err != nil {
		fatal(logger, "load document", err)
	}

	// two operations from the same document, in flight together
	us, err := conn.Execute(context.Background(), doc)
	if err != nil {
		fatal(logger, "execute GetCountry", err)
	}
	continents, err := conn.Execute(context.Background(), doc, graphql.WithOperationName("ListContinents"))
	if err != nil {
		fatal(logger, "execute ListContinents", err)
	}

	// give up on the second one if it is slow
	timer := time.AfterFunc(3*time.Second, func() {
		continents.Abort(fmt.Errorf("demo deadline"))
	})
	defer timer.Stop()

	for name, call := range map[string]*graphql.Call{"GetCountry": us, "ListContinents": continents} {
		resp, err := call.Wait()
		if err != nil {
			logger.Warn("request failed", "operation", name, "err", err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			logger.Warn("read response body", "operation", name, "err", err)
			continue
		}
		logger.Info("response", "operation", name, "status", resp.StatusCode, "bytes", len(body))
		fmt.Printf("%s: %s\n", name, body)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}
