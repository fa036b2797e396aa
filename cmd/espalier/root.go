package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/compiler"
	"github.com/aretw0/espalier/internal/logging"
	fileadapter "github.com/aretw0/espalier/pkg/adapters/file"
	redisadapter "github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/persistence/middleware"
	"github.com/aretw0/espalier/pkg/session"
	"github.com/spf13/cobra"
)

// sessionKeyEnv holds the at-rest encryption key so it never appears in argv.
const sessionKeyEnv = "ESPALIER_SESSION_KEY"

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier is a deterministic finite automaton engine",
	Long: `Espalier runs deterministic finite automata over symbol strings, from the
built-in binary mod-three machine to custom machines defined in YAML or JSON.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("defs", "", "Directory with extra machine definitions (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity: debug, info, warn or error (silent when unset)")
	rootCmd.PersistentFlags().String("sessions-dir", "", "Directory for file-backed sessions (default in-memory)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for durable sessions (e.g. localhost:6379)")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
	rootCmd.PersistentFlags().Bool("encrypt", false, "Encrypt sessions at rest (32-byte key from "+sessionKeyEnv+")")
}

// newService builds a service from the persistent flags: logger, optional
// durable sessions (Redis or files), plus any machines found under --defs.
func newService(cmd *cobra.Command) (*espalier.Service, error) {
	var opts []espalier.Option

	var logger *slog.Logger
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		level, err := logging.ParseLevel(lvl)
		if err != nil {
			return nil, err
		}
		logger = logging.New(level)
		opts = append(opts, espalier.WithLogger(logger))
	}

	var store session.Store
	// Redis wins over the file store when both are set.
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		rs := redisadapter.New(addr, password, db)
		store = rs
		opts = append(opts, espalier.WithLocker(redisadapter.NewLocker(rs.Client(), "espalier:")))
	} else if dir, _ := cmd.Flags().GetString("sessions-dir"); dir != "" {
		store = fileadapter.New(dir)
	}
	if store != nil {
		// Chain order: logging sees plaintext, encryption talks to the store.
		if enc, _ := cmd.Flags().GetBool("encrypt"); enc {
			key := []byte(os.Getenv(sessionKeyEnv))
			if len(key) != 32 {
				return nil, fmt.Errorf("--encrypt requires a 32-byte key in %s (got %d bytes)", sessionKeyEnv, len(key))
			}
			store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
		}
		if logger != nil {
			store = middleware.NewLoggingMiddleware(logger)(store)
		}
		opts = append(opts, espalier.WithStore(store))
	}

	svc, err := espalier.New(opts...)
	if err != nil {
		return nil, err
	}

	if dir, _ := cmd.Flags().GetString("defs"); dir != "" {
		defs, err := compiler.LoadDir(dir)
		if err != nil {
			return nil, err
		}
		for name, def := range defs {
			if err := svc.Register(name, def); err != nil {
				return nil, fmt.Errorf("register %s: %w", name, err)
			}
		}
	}

	return svc, nil
}
