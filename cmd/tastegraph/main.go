package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tastegraph/tastegraph/internal/profile"
	"github.com/tastegraph/tastegraph/internal/version"
	"github.com/tastegraph/tastegraph/plugin/ai"
	"github.com/tastegraph/tastegraph/plugin/ai/intent"
	"github.com/tastegraph/tastegraph/plugin/ai/memory"
	"github.com/tastegraph/tastegraph/plugin/nlp/criteria"
	"github.com/tastegraph/tastegraph/plugin/nlp/lexicon"
	"github.com/tastegraph/tastegraph/plugin/nlp/ner"
	"github.com/tastegraph/tastegraph/server"
	"github.com/tastegraph/tastegraph/server/queryengine"
	"github.com/tastegraph/tastegraph/server/service/dialogue"
	"github.com/tastegraph/tastegraph/store"
	"github.com/tastegraph/tastegraph/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "tastegraph",
	Short: `A conversational food assistant. Ask for recipes, restaurants, or food advice over a knowledge graph.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Load .env from the working directory when present.
		_ = godotenv.Load()
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Data:    viper.GetString("data"),
			Driver:  viper.GetString("driver"),
			DSN:     viper.GetString("dsn"),
			Version: version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		setupLogger(instanceProfile)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", "error", err)
			return
		}
		storeInstance := store.New(dbDriver, instanceProfile)
		defer storeInstance.Close()
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate", "error", err)
			return
		}

		patterns, err := lexicon.NewBuilder(storeInstance).Build(ctx)
		if err != nil {
			slog.Error("failed to build lexicon", "error", err)
			return
		}
		matcher := ner.NewMatcher(patterns)

		llmConfig := ai.NewLLMConfigFromProfile(instanceProfile)
		completer, err := ai.NewCompleter(llmConfig)
		if err != nil {
			slog.Error("failed to create llm client", "error", err)
			return
		}

		runner, err := queryengine.NewHTTPRunner(queryengine.HTTPRunnerConfig{
			URL:      instanceProfile.GraphURL,
			Username: instanceProfile.GraphUsername,
			Password: instanceProfile.GraphPassword,
			Database: instanceProfile.GraphDatabase,
		})
		if err != nil {
			slog.Error("failed to create graph runner", "error", err)
			return
		}

		conversationMemory := memory.NewShortTermMemory(memory.Config{
			MaxTurns: instanceProfile.MemoryMaxTurns,
			IdleTTL:  instanceProfile.MemoryIdleTTL,
		})
		defer conversationMemory.Close()

		dialogueService := dialogue.NewService(
			intent.NewParser(completer),
			intent.NewResponder(completer),
			matcher,
			criteria.NewExtractor(),
			conversationMemory,
			queryengine.NewEngine(completer, runner),
			instanceProfile.MemoryWindow,
		)

		s := server.NewServer(instanceProfile, dialogueService)

		c := make(chan os.Signal, 1)
		// SIGTERM is the conventional graceful-shutdown signal.
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			return
		}

		printGreetings(instanceProfile)

		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		<-ctx.Done()
	},
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8080)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8080, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "lexicon store driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "lexicon store source name (aka. DSN)")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("tastegraph")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// setupLogger installs the process-wide slog handler: human-readable
// text with debug detail in dev, JSON in prod.
func setupLogger(profile *profile.Profile) {
	var handler slog.Handler
	if profile.IsDev() {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("TasteGraph %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Lexicon store: %s\n", profile.DSN)
		}
	}

	fmt.Printf("Mode: %s\n", profile.Mode)
	fmt.Printf("Lexicon store driver: %s\n", profile.Driver)
	fmt.Printf("Knowledge graph: %s\n", profile.GraphURL)

	if len(profile.Addr) == 0 {
		fmt.Printf("Server running on port %d\n", profile.Port)
	} else {
		fmt.Printf("Server running on %s:%d\n", profile.Addr, profile.Port)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
