// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jinxian630/Assigment-MiniProject/advisor"
	"github.com/jinxian630/Assigment-MiniProject/config"
	"github.com/jinxian630/Assigment-MiniProject/llm"
	"github.com/jinxian630/Assigment-MiniProject/logger"
	"github.com/jinxian630/Assigment-MiniProject/server"
	"github.com/jinxian630/Assigment-MiniProject/vectorstore"
	"github.com/jinxian630/Assigment-MiniProject/websocket"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetGlobalLevel(level)
	}
	log := logger.New()
	log.SetComponent("server")
	log.SetJSONFormat(cfg.LogJSON)

	llmClient, err := llm.NewOllamaClient(cfg.LLM, log)
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}

	store, err := vectorstore.Open(cfg.StorePath, llmClient)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer store.Close()

	retriever := vectorstore.NewTaskRetriever(store)
	engine := advisor.NewEngine(retriever, llmClient, log)

	var stream *websocket.LogServer
	if cfg.WSPort > 0 {
		stream = websocket.NewLogServer(cfg.WSPort)
		if err := stream.Start(); err != nil {
			return fmt.Errorf("start activity stream: %w", err)
		}
		defer stream.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(engine, store, stream, cfg.CORSOrigins, cfg.Port)
	return srv.Start(ctx)
}
