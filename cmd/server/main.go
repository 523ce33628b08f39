package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"voxelforge/internal/chunk"
	"voxelforge/internal/config"
	"voxelforge/internal/persistence/indexdb"
	"voxelforge/internal/persistence/savefile"
	"voxelforge/internal/transport/ws"
	"voxelforge/internal/world"
)

func main() {
	var (
		addr       = flag.String("addr", "", "http listen address (overrides config)")
		configPath = flag.String("config", "", "path to config.yaml (empty for defaults)")
		dataDir    = flag.String("data", "", "runtime data directory (overrides config)")
		seed       = flag.Uint("seed", 0, "world seed (0 picks a random seed; ignored when resuming)")
		savePath   = flag.String("save", "", "path to save file to load (optional)")
		loadLatest = flag.Bool("load_latest", true, "load latest save from data dir if present (when -save is empty)")
		disableDB  = flag.Bool("disable_db", false, "disable the save index db")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *disableDB {
		cfg.DisableDB = true
	}

	w := world.New(chunk.New)
	w.SetFieldOfView(cfg.FieldOfView)

	saveDir := filepath.Join(cfg.DataDir, "saves")
	toLoad := strings.TrimSpace(*savePath)
	if toLoad == "" && *loadLatest {
		latest, err := savefile.Latest(saveDir)
		if err != nil {
			logger.Fatalf("scan saves: %v", err)
		}
		toLoad = latest
	}
	if toLoad != "" {
		if err := savefile.Read(toLoad, w); err != nil {
			logger.Fatalf("load save: %v", err)
		}
		logger.Printf("resumed from %s seed=%d chunks=%d", filepath.Base(toLoad), w.Seed(), w.ChunkCount())
	} else {
		// New already picked a random seed; the flag overrides it.
		if s := uint32(*seed); s != 0 {
			w.Reseed(s)
		}
		logger.Printf("fresh world seed=%d", w.Seed())
	}

	var idx *indexdb.SaveIndex
	if !cfg.DisableDB {
		idx, err = indexdb.Open(filepath.Join(cfg.DataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open save index: %v", err)
		}
		defer idx.Close()
	}

	saveWorld := func(w *world.World) (string, error) {
		name, err := savefile.Write(saveDir, w)
		if err != nil {
			return "", err
		}
		if err := idx.RecordSave(indexdb.SaveRecord{
			Name:        name,
			Seed:        w.Seed(),
			FieldOfView: w.FieldOfView(),
			Chunks:      w.ChunkCount(),
			Pending:     len(w.PendingChanges()),
		}); err != nil {
			logger.Printf("save index: %v", err)
		}
		return name, nil
	}

	srv := ws.NewServer(w, logger, cfg, saveWorld)

	ctx, cancel := signalContext()
	defer cancel()

	// Tick loop: run chunk logic each tick, autosave on the configured
	// cadence.
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(cfg.TickRateHz))
		defer ticker.Stop()
		ticks := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.WithWorld(func(w *world.World) {
					w.Render()
				})
				ticks++
				if cfg.AutosaveEveryTicks > 0 && ticks%cfg.AutosaveEveryTicks == 0 {
					srv.WithWorld(func(w *world.World) {
						if name, err := saveWorld(w); err != nil {
							logger.Printf("autosave: %v", err)
						} else {
							logger.Printf("autosaved %s", name)
						}
					})
				}
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		var chunks, visible, pending int
		var seed uint32
		srv.WithWorld(func(w *world.World) {
			chunks = w.ChunkCount()
			visible = len(w.VisibleChunks())
			pending = len(w.PendingChanges())
			seed = w.Seed()
		})

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP voxelforge_world_chunks Loaded chunk count.\n")
		fmt.Fprintf(rw, "# TYPE voxelforge_world_chunks gauge\n")
		fmt.Fprintf(rw, "voxelforge_world_chunks{seed=\"%d\"} %d\n", seed, chunks)

		fmt.Fprintf(rw, "# HELP voxelforge_world_visible_chunks Chunks in the visible set.\n")
		fmt.Fprintf(rw, "# TYPE voxelforge_world_visible_chunks gauge\n")
		fmt.Fprintf(rw, "voxelforge_world_visible_chunks{seed=\"%d\"} %d\n", seed, visible)

		fmt.Fprintf(rw, "# HELP voxelforge_world_pending_edits Queued edits for unloaded chunks.\n")
		fmt.Fprintf(rw, "# TYPE voxelforge_world_pending_edits gauge\n")
		fmt.Fprintf(rw, "voxelforge_world_pending_edits{seed=\"%d\"} %d\n", seed, pending)
	})
	if envBool("VF_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		logger.Printf("pprof endpoints disabled (VF_ENABLE_PPROF_HTTP=false)")
	}
	mux.HandleFunc("/v1/ws", srv.Handler())

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = httpSrv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", cfg.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}

	// Final save on the way out.
	srv.WithWorld(func(w *world.World) {
		if name, err := saveWorld(w); err != nil {
			logger.Printf("final save: %v", err)
		} else {
			logger.Printf("final save %s", name)
		}
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
