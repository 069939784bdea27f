package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"deliveryPortal/internal/api"
	"deliveryPortal/internal/bridge"
	"deliveryPortal/internal/config"
	"deliveryPortal/internal/db"
	"deliveryPortal/internal/notify"
	"deliveryPortal/internal/orders"
	"deliveryPortal/internal/realtime"
	"deliveryPortal/internal/session"
	"deliveryPortal/internal/web"
	"deliveryPortal/repository"
)

const dialTimeout = 10 * time.Second

// socketLink ties a live socket connection and its event bridge to the
// current session. connect and disconnect are driven by session changes.
type socketLink struct {
	socketURL string
	notify    *notify.Store
	orders    *orders.Store

	mu     sync.Mutex
	client *realtime.Client
	bridge *bridge.Bridge
}

func (l *socketLink) connect(s *session.Session) {
	l.disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	client, err := realtime.Dial(ctx, l.socketURL, realtime.JoinInfo{
		UserID: s.UserID,
		Role:   s.Role,
	})
	if err != nil {
		// The portal still works without the socket: dashboards refresh on
		// request, only live pushes are missing.
		log.Printf("socket: connect failed, running without live events: %v", err)
		return
	}

	l.mu.Lock()
	l.client = client
	l.bridge = bridge.Start(client.Hub(), l.notify, l.orders)
	l.mu.Unlock()
	log.Printf("socket: connected as %s (%s)", s.UserID, s.Role)
}

func (l *socketLink) disconnect() {
	l.mu.Lock()
	client, br := l.client, l.bridge
	l.client, l.bridge = nil, nil
	l.mu.Unlock()

	if client != nil {
		_ = client.Close()
	}
	if br != nil {
		br.Stop()
	}
}

func main() {
	// .env is optional; real deployments use the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	d, err := db.Open(cfg.Cache.Path)
	if err != nil {
		log.Fatalf("open cache db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("close cache db: %v", err)
		}
	}()

	client := api.New(cfg.Backend.APIBaseURL)
	sessions := session.NewManager(client, cfg.Auth.JWTSecret)

	projections := repository.NewOrderProjectionRepository(d)
	orderStore := orders.NewStore(projections)
	if cached, err := projections.List(context.Background()); err != nil {
		log.Printf("load cached orders: %v", err)
	} else if len(cached) > 0 {
		orderStore.Seed(cached)
		log.Printf("restored %d cached orders", len(cached))
	}
	notifStore := notify.NewStore(client)

	link := &socketLink{
		socketURL: cfg.Backend.SocketURL,
		notify:    notifStore,
		orders:    orderStore,
	}
	sessions.OnChange(func(s *session.Session) {
		if s == nil {
			link.disconnect()
			return
		}
		link.connect(s)
	})

	server := web.NewServer(client, sessions, notifStore, orderStore)
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: server.Routes(),
	}

	go func() {
		log.Printf("portal listening on %s", cfg.HTTP.Address)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	link.disconnect()
}
