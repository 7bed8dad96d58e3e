package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"

	"github.com/emrgen/linker/internal/store"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server runs the fake linker backend for local development, so the cli and
// the web ui can be pointed at something without the real service.
type Server struct {
	httpPort string
	dsn      string
}

// NewServer creates a new server
func NewServer(httpPort, dsn string) *Server {
	return &Server{
		httpPort: httpPort,
		dsn:      dsn,
	}
}

// Start starts the server and blocks until it is interrupted.
func (s *Server) Start() {
	if err := Start(s.httpPort, s.dsn); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start serves the REST api on httpPort over the db at dsn until SIGINT or SIGTERM.
func Start(httpPort, dsn string) error {
	httpPort = ":" + httpPort

	db, err := store.Open(dsn)
	if err != nil {
		return err
	}

	linkStore := store.NewGormStore(db)
	if err := linkStore.Migrate(); err != nil {
		return err
	}

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	// the web ui calls the api from another origin
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
	})

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(NewHandler(linkStore)),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting linker api on: ", httpPort)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting linker api: %v", err)
			}
		}
		logrus.Infof("linker api stopped")
	}()

	logrus.Infof("Press Ctrl+C to stop the server")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	err = restServer.Shutdown(context.Background())
	if err != nil {
		logrus.Errorf("error stopping linker api: %v", err)
	}

	wg.Wait()

	return nil
}
