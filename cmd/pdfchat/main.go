package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pdfchat/internal/adapter/console"
	"pdfchat/internal/adapter/jsonfile"
	"pdfchat/internal/adapter/loader"
	"pdfchat/internal/adapter/memory"
	"pdfchat/internal/adapter/openai"
	"pdfchat/internal/adapter/tokenizer"
	"pdfchat/internal/adapter/vectorstore"
	"pdfchat/internal/config"
	"pdfchat/internal/usecase/chat"
	"pdfchat/internal/usecase/index"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(".env", *configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	docs, err := loader.NewDirectoryReader(cfg.DocumentsDir).LoadData(ctx)
	if err != nil {
		log.Fatalf("failed to load documents: %v", err)
	}

	openAIClient := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel)
	store, err := vectorstore.NewStore("pdf", openAIClient.Embed)
	if err != nil {
		log.Fatalf("failed to init vector store: %v", err)
	}

	tok, err := tokenizer.New(cfg.Model)
	if err != nil {
		log.Fatalf("failed to init tokenizer: %v", err)
	}

	vectorIndex, err := index.FromDocuments(ctx, docs, store, openAIClient, tok, index.SettingsFromConfig(cfg))
	if err != nil {
		log.Fatalf("failed to build index: %v", err)
	}

	chatSvc := chat.NewService(memory.NewStore(), jsonfile.NewStore(), index.WithPrompt(vectorIndex), cfg)
	if err := chatSvc.LoadHistory(cfg.HistoryPath); err != nil {
		log.Fatalf("failed to load chat history: %v", err)
	}

	bot := console.NewBot(os.Stdin, os.Stdout, chatSvc, cfg)
	if err := bot.Run(ctx); err != nil {
		if ctx.Err() != nil {
			log.Printf("shutdown: %v", err)
			return
		}
		log.Fatalf("chat stopped with error: %v", err)
	}
}
