package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if err := LoadEnvFrom(configPath); err != nil {
		log.Fatal(err)
	}
}

func LoadEnvFrom(configPath string) error {
	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return nil
	}

	log.Printf("loading env from file %s", configPath)
	if err := godotenv.Load(configPath); err != nil {
		return fmt.Errorf("error loading .env file '%s': %w", configPath, err)
	}
	return nil
}

// SetupLogging installs the default slog logger. When logFile is set, logs are
// written to both the file and stderr. The returned closer is never nil.
func SetupLogging(level slog.Level, logFile string) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return closer, fmt.Errorf("error opening log file: %w", err)
		}
		out = io.MultiWriter(f, os.Stderr)
		closer = f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return closer, nil
}
