package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/flarexio/docqa"
	"github.com/flarexio/docqa/embedding"
	"github.com/flarexio/docqa/llm"
	"github.com/flarexio/docqa/persistence/chromem"
	"github.com/flarexio/docqa/translate"

	mcpE "github.com/flarexio/docqa/mcp"
	httpT "github.com/flarexio/docqa/transport/http"
	natsT "github.com/flarexio/docqa/transport/nats"
)

func main() {
	cmd := &cli.Command{
		Name:  "docqa",
		Usage: "DocQA service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Path to the DocQA service",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Environment file holding API keys",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "nats",
				Usage:   "NATS server URL, empty disables the NATS transport",
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.BoolFlag{
				Name:  "http",
				Usage: "Enable HTTP transport",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "HTTP server address",
				Value: ":8080",
			},
		},
		Action: run,
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = filepath.Join(homeDir, ".flarex", "docqa")
	}

	if err := godotenv.Load(cmd.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	f, err := os.Open(filepath.Join(path, "config.yaml"))
	if err != nil {
		return err
	}
	defer f.Close()

	var cfg docqa.Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return err
	}

	cfg.Normalize()

	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Embedding.APIKey = os.Getenv("EMBEDDING_API_KEY")
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = cfg.LLM.APIKey
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	embed, err := embedding.NewEmbeddingFunc(ctx, cfg.Embedding)
	if err != nil {
		return err
	}

	vector, err := chromem.NewChromemVectorDB(cfg.Vector, embed)
	if err != nil {
		return err
	}

	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return err
	}

	gen := llm.NewChatGenerator(chatModel, cfg.LLM.System)

	svc, err := docqa.NewService(cfg, vector, gen)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc = docqa.LoggingMiddleware(log)(svc)
	svc = docqa.InstrumentingMiddleware(docqa.NewMetrics("docqa"))(svc)

	endpoints := docqa.MakeEndpoints(svc)

	// Add NATS Transport
	if natsURL := cmd.String("nats"); natsURL != "" {
		idBytes, err := os.ReadFile(filepath.Join(path, "id"))
		if err != nil {
			return err
		}

		edgeID := strings.TrimSpace(string(idBytes))

		opts := []nats.Option{
			nats.Name("DocQA Server - " + edgeID),
		}

		natsCreds := filepath.Join(path, "user.creds")
		if _, err := os.Stat(natsCreds); err == nil {
			opts = append(opts, nats.UserCredentials(natsCreds))
		}

		nc, err := nats.Connect(natsURL, opts...)
		if err != nil {
			return err
		}
		defer nc.Drain()

		srv, err := micro.AddService(nc, micro.Config{
			Name:    "docqa",
			Version: "1.0.0",
		})

		if err != nil {
			return err
		}
		defer srv.Stop()

		topic := "edges." + edgeID + ".docqa"

		root := srv.AddGroup(topic)
		natsT.AddEndpoints(root, endpoints)

		log.Info("nats transport enabled", zap.String("topic", topic))
	}

	httpEnabled := cmd.Bool("http")
	if httpEnabled {
		translator := translate.NewTranslator(gen)

		r := gin.Default()
		r.MaxMultipartMemory = httpT.MaxFileSize

		httpT.AddRouters(r, endpoints, httpT.TranslateEndpoints{
			Translate: translate.TranslateEndpoint(translator),
			Languages: translate.LanguagesEndpoint(),
		})
		httpT.AddMetricsRouter(r)
		httpT.AddStreamableRouters(r, mcpE.MakeEndpoints(svc))

		httpAddr := cmd.String("http-addr")
		go r.Run(httpAddr)

		log.Info("http transport enabled", zap.String("addr", httpAddr))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}
