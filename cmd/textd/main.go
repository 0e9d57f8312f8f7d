package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	"github.com/heysubinoy/pyaztext/internal/api"
	"github.com/heysubinoy/pyaztext/internal/store"
	"github.com/heysubinoy/pyaztext/internal/usertext"
	"github.com/heysubinoy/pyaztext/pkg/config"
	"github.com/heysubinoy/pyaztext/pkg/kv"
	"google.golang.org/grpc"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "textd: %v\n", err)
		os.Exit(1)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "textd",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger hclog.Logger) error {
	memStore := store.NewMemStore()

	var backing kv.Store = memStore
	var raftNode *raft.Raft
	fresh := true
	if cfg.Replicated() {
		raftStore := store.NewRaftStore(memStore, logger)
		r, isFresh, err := store.OpenRaft(store.RaftOptions{
			NodeID:    cfg.NodeID,
			BindAddr:  cfg.RaftAddr,
			DataDir:   cfg.RaftData,
			Bootstrap: cfg.RaftBootstrap,
		}, raftStore, logger)
		if err != nil {
			return err
		}
		defer r.Shutdown()
		raftStore.Attach(r)
		backing, raftNode = raftStore, r
		fresh = isFresh && cfg.RaftBootstrap

		if cfg.JoinAddr != "" {
			if err := joinCluster(ctx, cfg, logger); err != nil {
				return err
			}
		}
	}

	instrumented := store.NewInstrumentedStore(backing)
	textStore := usertext.New(instrumented)

	var node leaderState
	if raftNode != nil {
		node = raftNode
	}
	if _, err := seedStore(ctx, textStore, node, fresh, cfg.SeedFile, seedLeaderTimeout, logger); err != nil {
		return err
	}

	errCh := make(chan error, 2)

	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
		}
		grpcServer = grpc.NewServer()
		api.RegisterTextServiceServer(grpcServer, api.NewGRPCServer(textStore, logger))

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			errCh <- grpcServer.Serve(lis)
		}()
	}

	var httpServer *http.Server
	if cfg.HTTPAddr != "" {
		srv := api.NewServer(textStore, raftNode, logger)
		if _, port, err := net.SplitHostPort(cfg.HTTPAddr); err == nil {
			srv.HTTPPort = port
		}

		mux := http.NewServeMux()
		srv.RegisterRoutes(mux)
		mux.HandleFunc("/metrics", api.MetricsHandler(instrumented))

		httpServer = &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		return err
	}

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
	return nil
}

// joinCluster asks the leader's HTTP API to add this node as a voter.
func joinCluster(ctx context.Context, cfg *config.Config, logger hclog.Logger) error {
	body, err := json.Marshal(map[string]string{"id": cfg.NodeID, "addr": cfg.RaftAddr})
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://"+cfg.JoinAddr+"/join", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusNoContent {
				logger.Info("joined cluster", "leader", cfg.JoinAddr)
				return nil
			}
			err = fmt.Errorf("join rejected: status %d", resp.StatusCode)
		}
		if attempt == 5 {
			return fmt.Errorf("join %s: %w", cfg.JoinAddr, err)
		}
		logger.Warn("join attempt failed", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
}
