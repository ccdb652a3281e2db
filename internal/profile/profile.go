package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// Driver is the lexicon store driver (sqlite or postgres)
	Driver string
	// DSN points to where the lexicon store keeps its data
	DSN string
	// Version is the current version of server
	Version string

	// LLM configuration
	LLMProvider string        // TASTEGRAPH_LLM_PROVIDER (default: openai)
	LLMAPIKey   string        // TASTEGRAPH_LLM_API_KEY
	LLMBaseURL  string        // TASTEGRAPH_LLM_BASE_URL (default: https://api.openai.com/v1)
	LLMModel    string        // TASTEGRAPH_LLM_MODEL (default: gpt-4o-mini)
	LLMTimeout  time.Duration // TASTEGRAPH_LLM_TIMEOUT (default: 30s)

	// Conversation memory configuration
	MemoryMaxTurns int           // TASTEGRAPH_MEMORY_MAX_TURNS (default: 50)
	MemoryIdleTTL  time.Duration // TASTEGRAPH_MEMORY_IDLE_TTL (default: 1h)
	MemoryWindow   int           // TASTEGRAPH_MEMORY_WINDOW (default: 5)

	// Knowledge graph connection
	GraphURL      string // TASTEGRAPH_GRAPH_URL (e.g. http://localhost:7474)
	GraphUsername string // TASTEGRAPH_GRAPH_USERNAME
	GraphPassword string // TASTEGRAPH_GRAPH_PASSWORD
	GraphDatabase string // TASTEGRAPH_GRAPH_DATABASE (default: neo4j)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from TASTEGRAPH_* environment variables.
func (p *Profile) FromEnv() {
	getIntEnv := func(key string, defaultValue int) int {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return defaultValue
	}
	getDurationEnv := func(key string, defaultValue time.Duration) time.Duration {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				return d
			}
		}
		return defaultValue
	}

	p.LLMProvider = getEnvOrDefault("TASTEGRAPH_LLM_PROVIDER", "openai")
	p.LLMAPIKey = os.Getenv("TASTEGRAPH_LLM_API_KEY")
	p.LLMBaseURL = getEnvOrDefault("TASTEGRAPH_LLM_BASE_URL", "https://api.openai.com/v1")
	p.LLMModel = getEnvOrDefault("TASTEGRAPH_LLM_MODEL", "gpt-4o-mini")
	p.LLMTimeout = getDurationEnv("TASTEGRAPH_LLM_TIMEOUT", 30*time.Second)

	p.MemoryMaxTurns = getIntEnv("TASTEGRAPH_MEMORY_MAX_TURNS", 50)
	p.MemoryIdleTTL = getDurationEnv("TASTEGRAPH_MEMORY_IDLE_TTL", time.Hour)
	p.MemoryWindow = getIntEnv("TASTEGRAPH_MEMORY_WINDOW", 5)

	p.GraphURL = os.Getenv("TASTEGRAPH_GRAPH_URL")
	p.GraphUsername = os.Getenv("TASTEGRAPH_GRAPH_USERNAME")
	p.GraphPassword = os.Getenv("TASTEGRAPH_GRAPH_PASSWORD")
	p.GraphDatabase = getEnvOrDefault("TASTEGRAPH_GRAPH_DATABASE", "neo4j")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported lexicon store driver %q", p.Driver)
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("tastegraph_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a DSN")
	}

	if p.LLMAPIKey == "" && p.LLMProvider != "ollama" {
		return errors.New("LLM API key is required, set TASTEGRAPH_LLM_API_KEY")
	}

	if p.GraphURL == "" {
		return errors.New("graph URL is required, set TASTEGRAPH_GRAPH_URL")
	}

	return nil
}
