package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookstore-catalog/internal/storefront/cart"
	"bookstore-catalog/internal/storefront/client"
	"bookstore-catalog/internal/storefront/view"
	"bookstore-catalog/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

func main() {
	_ = godotenv.Load()
	// the prompt owns stdout; logs go to stderr and stay quiet by default
	logger.InitWithWriter("development", envOr("LOG_LEVEL", "warn"), os.Stderr)

	var (
		baseURL = flag.String("api", envOr("API_BASE_URL", "http://localhost:8080"), "Catalog API base URL")
		lang    = flag.String("lang", envOr("STOREFRONT_LANG", "en"), "BCP 47 tag used to sort titles")
	)
	flag.Parse()

	tag, err := language.Parse(*lang)
	if err != nil {
		log.Fatal().Err(err).Str("lang", *lang).Msg("Invalid language tag")
	}

	api, err := client.New(*baseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid API base URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sh := newShell(view.NewController(api, view.WithLanguage(tag)), cart.New(), bufio.NewScanner(os.Stdin), os.Stdout)
	fmt.Fprintf(os.Stdout, "Bookstore storefront on %s. Type 'help' for commands.\n", *baseURL)
	sh.exec(ctx, "list")
	sh.run(ctx)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
