// cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jinxian630/Assigment-MiniProject/config"
	"github.com/jinxian630/Assigment-MiniProject/llm"
	"github.com/jinxian630/Assigment-MiniProject/vectorstore"
)

func main() {
	seedPath := flag.String("file", "configs/seed_rules.yaml", "seed data file (YAML)")
	storePath := flag.String("store", "", "vector store path (default: ADVISOR_STORE_PATH)")
	flag.Parse()

	if err := run(*seedPath, *storePath); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(seedPath, storePath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if storePath == "" {
		storePath = cfg.StorePath
	}

	seed, err := config.LoadSeedFile(seedPath)
	if err != nil {
		return err
	}

	embedder, err := llm.NewOllamaClient(cfg.LLM, nil)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}

	store, err := vectorstore.Open(storePath, embedder)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer store.Close()

	docs := make([]vectorstore.Document, 0, len(seed.Documents))
	for _, d := range seed.Documents {
		docs = append(docs, vectorstore.Document{
			ID:        d.ID,
			Module:    d.Module,
			Type:      d.Type,
			UserID:    d.UserID,
			SourceRow: d.SourceRow,
			Content:   d.Content,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := store.Add(ctx, docs); err != nil {
		return fmt.Errorf("insert documents: %w", err)
	}

	count, err := store.Count(ctx, vectorstore.Filter{})
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}

	fmt.Printf("inserted %d document(s); store now holds %d\n", len(docs), count)
	return nil
}
