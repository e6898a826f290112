// cmd/apistub/main.go
//
// Local development backend for the admin client. Serves the same REST
// surface as the production API from memory, seeded with one superadmin.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/votoinformado/votoadmin/internal/api"
	"github.com/votoinformado/votoadmin/internal/stubapi"
)

func main() {
	var (
		host     = flag.String("host", "127.0.0.1", "address to bind")
		port     = flag.Int("port", 3000, "port to bind")
		email    = flag.String("admin-email", "admin@voto.pe", "seeded admin email")
		password = flag.String("admin-password", "admin123", "seeded admin password")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	srv := stubapi.NewServer(stubapi.Settings{
		Host:         *host,
		Port:         *port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}, stubapi.WithLogger(logger))

	if _, err := srv.Store().SeedAdmin("Administrador", *email, *password, api.RoleSuperadmin); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding admin: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Start(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting server: %v\n", err)
		os.Exit(1)
	}
	logger.Info().Str("addr", srv.Addr()).Str("email", *email).Msg("stub backend ready")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		os.Exit(1)
	}
}
