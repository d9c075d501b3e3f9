package api

import (
	"CollectPortal/api/auth"
	"CollectPortal/internal/config"
	"CollectPortal/internal/notification"
	"CollectPortal/internal/portal"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// PortalService serves the portal HTTP API.
type PortalService struct {
	config map[string]interface{}
	auth   *auth.AuthService
	portal *portal.Service
	server *http.Server
}

func NewPortalService(cfg map[string]interface{}, authSvc *auth.AuthService, svc *portal.Service, hub *notification.NotificationService) *PortalService {
	port := config.DefaultPortalPort
	if p, ok := cfg["port"].(int); ok && p > 0 {
		port = p
	}
	return &PortalService{
		config: cfg,
		auth:   authSvc,
		portal: svc,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(authSvc, svc, hub),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *PortalService) Name() string {
	return "portal"
}

func (s *PortalService) Start() error {
	go func() {
		log.Println("[INFO] Portal Service started on", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] Portal Service failed: %v", err)
		}
	}()
	return nil
}

func (s *PortalService) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *PortalService) Handler() http.Handler {
	return s.server.Handler
}
