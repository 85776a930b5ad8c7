// Command armkin-server serves forward and inverse kinematics over HTTP and
// keeps a log of inverse solutions in SQLite.
//
//	armkin-server --listen :8080 --db-path armkin.db
//	armkin-server --grpc-listen :50051 --no-db
//	armkin-server --db-path armkin.db migrate status
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/armkin/internal/api"
	"github.com/banshee-data/armkin/internal/config"
	"github.com/banshee-data/armkin/internal/db"
	"github.com/banshee-data/armkin/internal/rpc"
	"github.com/banshee-data/armkin/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	grpcListen  = flag.String("grpc-listen", "", "gRPC listen address (empty disables gRPC)")
	dbPath      = flag.String("db-path", db.DefaultPath, "Path to the sqlite solution log")
	noDB        = flag.Bool("no-db", false, "Disable the solution log and cache")
	configPath  = flag.String("config", "", "Search config JSON file (default: built-in 5 degree grid)")
	devMode     = flag.Bool("dev", false, "Read migrations from internal/db/migrations instead of the binary")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func loadConfig(path string) (*config.SearchConfig, error) {
	if path == "" {
		return config.EmptySearchConfig(), nil
	}
	return config.LoadSearchConfig(path)
}

// newHandler wires the API and, when database is set, the admin routes.
func newHandler(srv *api.Server, database *db.DB) http.Handler {
	mux := srv.ServeMux()
	if database != nil {
		database.AttachAdminRoutes(mux)
	}
	return api.LoggingMiddleware(mux)
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("armkin-server"))
		return
	}
	db.DevMode = *devMode

	if flag.NArg() > 0 && flag.Arg(0) == "migrate" {
		if err := db.RunMigrateCommand(flag.Args()[1:], *dbPath, os.Stdout); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return
	}
	if flag.NArg() > 0 {
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var database *db.DB
	if !*noDB {
		database, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()
		if n, err := database.CountSolutions(); err == nil {
			log.Printf("solution log %s holds %d solutions", *dbPath, n)
		}
	}
	apiServer := api.NewServer(cfg, database)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              *listen,
		Handler:           newHandler(apiServer, database),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	var grpcServer *rpc.Server
	if *grpcListen != "" {
		grpcServer = rpc.NewServer(*grpcListen, rpc.NewService(apiServer.SolveService()))
		if err := grpcServer.Start(); err != nil {
			log.Fatalf("failed to start gRPC server: %v", err)
		}
	}

	g := cfg.GetGrid()
	log.Printf("armkin-server %s listening on %s (grid %s, %d candidates)", version.Version, *listen, g.Key(), g.Len())

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}
	log.Printf("Graceful shutdown complete")
}
