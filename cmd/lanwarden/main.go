package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/avidal-labs/lanwarden/internal/adapters/web/auth"
	"github.com/avidal-labs/lanwarden/internal/app"
	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/logging"
	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := config.ParseFlags()

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	if err := logging.Init(logging.Config{Debug: cfg.General.DebugLogging}); err != nil {
		fmt.Fprintf(os.Stderr, "logging init failed: %v\n", err)
		return 1
	}
	log := logging.WithComponent("main")

	if flags.Reset {
		if err := cfg.Reset(); err != nil {
			log.Error().Err(err).Msg("reset failed")
			return 1
		}
		log.Info().Str("path", cfg.Path).Msg("configuration reset to defaults")
	}

	if flags.ConsoleSetup || (!cfg.General.Configured && !cfg.WebInterface.Enabled) {
		if err := consoleSetup(cfg); err != nil {
			log.Error().Err(err).Msg("setup failed")
			return 1
		}
	}

	shutdownTracer, err := telemetry.InitTracer(app.Version)
	if err != nil {
		log.Warn().Err(err).Msg("tracer init failed, continuing without tracing")
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Error().Err(err).Msg("tracer shutdown failed")
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, cfg, cancel)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return 1
	}

	log.Info().Str("version", app.Version).Msg("lanwarden starting")
	if err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("runtime error")
		return 1
	}
	log.Info().Msg("lanwarden stopped")
	return 0
}

// consoleSetup walks through the minimum viable configuration on the
// terminal: subnet, Telegram and optional API credentials.
func consoleSetup(cfg *config.Config) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("lanwarden initial setup")
	fmt.Println("-----------------------")

	subnet := prompt(reader, fmt.Sprintf("Subnet to scan (CIDR) [%s]: ", cfg.Network.Subnet))
	if subnet != "" {
		cfg.Network.Subnet = subnet
	}

	if yes(prompt(reader, "Enable Telegram alerts? [y/N]: ")) {
		cfg.Telegram.Enabled = true
		cfg.Telegram.APIToken = prompt(reader, "Telegram bot token: ")
		cfg.Telegram.ChatID = prompt(reader, "Telegram chat id: ")
	}

	if yes(prompt(reader, "Protect the web interface with a login? [y/N]: ")) {
		cfg.WebInterface.Username = prompt(reader, "Username: ")
		password := prompt(reader, "Password: ")
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		cfg.WebInterface.PasswordHash = hash
	}

	cfg.General.Configured = true
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("Configuration written to %s\n", cfg.Path)
	return nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func yes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
