package config

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is required")

type Config struct {
	OpenAIKey       string  `yaml:"-"`
	OpenAIBaseURL   string  `yaml:"openai_base_url"`
	Model           string  `yaml:"model"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	Temperature     float32 `yaml:"temperature"`
	MaxInputSize    int     `yaml:"max_input_size"`
	NumOutput       int     `yaml:"num_output"`
	MaxChunkOverlap int     `yaml:"max_chunk_overlap"`
	SimilarityTopK  int     `yaml:"similarity_top_k"`
	HistoryWindow   int     `yaml:"history_window"`
	DocumentsDir    string  `yaml:"documents_dir"`
	HistoryPath     string  `yaml:"history_path"`
	RenderMarkdown  bool    `yaml:"render_markdown"`
}

func Default() Config {
	return Config{
		Model:           "gpt-3.5-turbo",
		EmbeddingModel:  "text-embedding-ada-002",
		Temperature:     0.1,
		MaxInputSize:    4096,
		NumOutput:       256,
		MaxChunkOverlap: 20,
		SimilarityTopK:  1,
		HistoryWindow:   5,
		DocumentsDir:    "./pdf",
		HistoryPath:     "chat_history.json",
	}
}

// Load resolves the configuration from defaults, the optional YAML file at
// yamlPath and the environment, in that order of precedence. Variables from
// the .env file at envPath only fill in values the environment leaves empty.
func Load(envPath, yamlPath string) (Config, error) {
	if err := loadDotEnv(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not read .env: %v", err)
	}

	cfg := Default()
	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", yamlPath, err)
		}
	}

	cfg.OpenAIBaseURL = getenvDefault("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.Model = getenvDefault("OPENAI_MODEL", cfg.Model)
	cfg.EmbeddingModel = getenvDefault("OPENAI_EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.Temperature = getenvFloatDefault("TEMPERATURE", cfg.Temperature)
	cfg.MaxInputSize = getenvIntDefault("MAX_INPUT_SIZE", cfg.MaxInputSize)
	cfg.NumOutput = getenvIntDefault("NUM_OUTPUT", cfg.NumOutput)
	cfg.MaxChunkOverlap = getenvIntDefault("MAX_CHUNK_OVERLAP", cfg.MaxChunkOverlap)
	cfg.SimilarityTopK = getenvIntDefault("SIMILARITY_TOP_K", cfg.SimilarityTopK)
	cfg.HistoryWindow = getenvIntDefault("HISTORY_WINDOW", cfg.HistoryWindow)
	cfg.DocumentsDir = getenvDefault("DOCUMENTS_DIR", cfg.DocumentsDir)
	cfg.HistoryPath = getenvDefault("CHAT_HISTORY_PATH", cfg.HistoryPath)
	cfg.RenderMarkdown = getenvBoolDefault("RENDER_MARKDOWN", cfg.RenderMarkdown)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIKey == "" {
		return cfg, ErrMissingAPIKey
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Model == "" {
		return errors.New("model cannot be empty")
	}
	if c.EmbeddingModel == "" {
		return errors.New("embedding model cannot be empty")
	}
	if c.MaxInputSize <= 0 || c.NumOutput <= 0 {
		return errors.New("max input size and num output must be positive")
	}
	if c.NumOutput >= c.MaxInputSize {
		return fmt.Errorf("num output %d leaves no room in max input size %d", c.NumOutput, c.MaxInputSize)
	}
	if c.MaxChunkOverlap < 0 {
		return errors.New("max chunk overlap cannot be negative")
	}
	if c.SimilarityTopK <= 0 {
		return errors.New("similarity top k must be positive")
	}
	if c.HistoryWindow <= 0 {
		return errors.New("history window must be positive")
	}
	if c.DocumentsDir == "" || c.HistoryPath == "" {
		return errors.New("documents dir and history path are required")
	}
	return nil
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid int for %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func getenvFloatDefault(key string, def float32) float32 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		log.Printf("invalid float for %s=%q, using default %g", key, v, def)
		return def
	}
	return float32(f)
}

func getenvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid bool for %s=%q, using default %t", key, v, def)
		return def
	}
	return b
}

func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
	return scanner.Err()
}

func parseEnvLine(line string) (string, string, bool) {
	if strings.HasPrefix(line, "export ") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	}
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	val = strings.Trim(strings.TrimSpace(val), `"'`)
	if key == "" {
		return "", "", false
	}
	return key, val, true
}
