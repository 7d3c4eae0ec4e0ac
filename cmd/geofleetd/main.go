// Command geofleetd runs the geo-fleet control plane: one country
// manager goroutine supervising a data server goroutine per
// configured country, fronted by the admin HTTP surface.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestreldata/geofleet/internal/adminhttp"
	"github.com/kestreldata/geofleet/internal/auxstore"
	"github.com/kestreldata/geofleet/internal/catalog"
	"github.com/kestreldata/geofleet/internal/config"
	"github.com/kestreldata/geofleet/internal/dataserver"
	"github.com/kestreldata/geofleet/internal/geonames"
	"github.com/kestreldata/geofleet/internal/manager"
)

func main() {
	configPath := flag.String("config", getenv("GEOFLEET_CONFIG", "geofleet.yaml"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("geofleetd: %v", err)
	}

	applyTunables(cfg)

	cat, err := catalog.New(cfg.Countries)
	if err != nil {
		log.Fatalf("geofleetd: %v", err)
	}

	spawn := dataserver.NewSpawner(dataserver.Config{
		ProxyHost:  cfg.Proxy.Host,
		ProxyPort:  cfg.Proxy.Port,
		ScratchDir: cfg.Dirs.ScratchDir,
		CacheDir:   cfg.Dirs.CacheDir,
	})

	mgr := manager.New(cat, auxstore.New(), spawn)

	ctx, cancelMgr := context.WithCancel(context.Background())
	mgrDone := make(chan error, 1)
	go func() { mgrDone <- mgr.Run(ctx) }()

	if cfg.Trace {
		reply := make(chan manager.Reply, 1)
		mgr.Commands() <- manager.Command{Kind: manager.CmdTrace, TraceOn: true, Reply: reply}
		<-reply
	}

	admin := adminhttp.New(mgr)
	mux := http.NewServeMux()
	admin.Routes(mux)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("geofleetd listening on %s", cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("geofleetd: listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("geofleetd: shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = httpSrv.Shutdown(shutdownCtx)

	reply := make(chan manager.Reply, 1)
	select {
	case mgr.Commands() <- manager.Command{Kind: manager.CmdTerminate, Reply: reply}:
		<-reply
	case <-shutdownCtx.Done():
	}

	select {
	case <-mgrDone:
	case <-shutdownCtx.Done():
		cancelMgr()
	}
	log.Println("geofleetd: stopped")
}

// applyTunables overrides the data server pipeline's package-level
// tunables with the configured values. These are vars rather than
// consts specifically so a deployment can retune population
// thresholds, retry behavior, and cache staleness without a rebuild.
func applyTunables(cfg *config.Config) {
	geonames.PopulationMin = cfg.Tunables.PopulationMin
	geonames.RetryLimit = cfg.Tunables.RetryLimit
	geonames.RetryWait = cfg.Tunables.RetryWait
	geonames.CacheStaleness = cfg.Tunables.CacheStaleness
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
