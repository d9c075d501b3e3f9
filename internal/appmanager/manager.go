package appmanager

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"CollectPortal/api"
	"CollectPortal/api/auth"
	"CollectPortal/internal/caseimport"
	"CollectPortal/internal/jobs"
	"CollectPortal/internal/logger"
	"CollectPortal/internal/notification"
	"CollectPortal/internal/portal"
	"CollectPortal/internal/resource"
	"CollectPortal/internal/serviceiface"
	"CollectPortal/internal/store"

	"gopkg.in/yaml.v3"
)

var (
	recordStore store.Store
	aliases     caseimport.AliasTable
	portalSvc   *portal.Service
	authSvc     *auth.AuthService
	hub         *notification.NotificationService
	probes      = map[string]resource.Probe{}
	wireMu      sync.Mutex
)

// AddProbe registers a health probe for the resource manager.
func AddProbe(name string, p resource.Probe) {
	wireMu.Lock()
	defer wireMu.Unlock()
	probes[name] = p
}

func SetStore(st store.Store) {
	wireMu.Lock()
	defer wireMu.Unlock()
	recordStore = st
	portalSvc = nil
}

func SetAliases(t caseimport.AliasTable) {
	wireMu.Lock()
	defer wireMu.Unlock()
	aliases = t
	portalSvc = nil
}

// GetPortal returns the shared portal service, building it on first use.
func GetPortal() *portal.Service {
	wireMu.Lock()
	defer wireMu.Unlock()
	if portalSvc == nil {
		st := recordStore
		if st == nil {
			st = store.NewRecordStore(store.NewMemoryKV())
			recordStore = st
		}
		portalSvc = portal.NewService(st, aliases)
		portalSvc.SetNotifier(getHubLocked())
	}
	return portalSvc
}

func getHubLocked() *notification.NotificationService {
	if hub == nil {
		hub = notification.NewNotificationService(0)
	}
	return hub
}

// GetNotifications returns the shared notification hub.
func GetNotifications() *notification.NotificationService {
	wireMu.Lock()
	defer wireMu.Unlock()
	return getHubLocked()
}

func getAuth(cfg map[string]interface{}) *auth.AuthService {
	wireMu.Lock()
	defer wireMu.Unlock()
	if authSvc == nil {
		timeout := 0
		if cfg != nil {
			if v, ok := cfg["session_timeout"]; ok && v != nil {
				timeout = toInt(v)
			}
		}
		authSvc = auth.NewAuthService(nil, time.Duration(timeout)*time.Minute)
	}
	return authSvc
}

func toInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		var parsed int
		if _, err := fmt.Sscanf(t, "%d", &parsed); err == nil {
			return parsed
		}
	}
	return 0
}

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		return logger.NewLoggerService(cfg)
	},
	"auth": func(cfg map[string]interface{}) serviceiface.Service {
		return getAuth(cfg)
	},
	"portal": func(cfg map[string]interface{}) serviceiface.Service {
		if cfg != nil {
			if v, ok := cfg["port"]; ok && v != nil {
				cfg["port"] = toInt(v)
			}
		}
		return api.NewPortalService(cfg, getAuth(nil), GetPortal(), GetNotifications())
	},
	"cron": func(cfg map[string]interface{}) serviceiface.Service {
		return jobs.NewCronService(cfg, GetPortal())
	},
	"resourcemanager": func(cfg map[string]interface{}) serviceiface.Service {
		rm := resource.NewResourceManagerService(cfg)
		wireMu.Lock()
		defer wireMu.Unlock()
		for name, p := range probes {
			rm.AddResource(name, p)
		}
		return rm
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

// StartAll starts the logger first so later services log to its file, then
// everything else in registration order, and the resource manager last so
// its first heartbeat sees running services.
func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()

	rank := func(name string) int {
		switch name {
		case "logger":
			return 0
		case "resourcemanager":
			return 2
		}
		return 1
	}
	for pass := 0; pass <= 2; pass++ {
		for _, service := range am.services {
			if rank(service.Name()) != pass {
				continue
			}
			fmt.Println("Starting service:", service.Name())
			if err := service.Start(); err != nil {
				return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
			}
		}
	}
	return nil
}

func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			return fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return nil
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseServiceSequence(data)
}

func ParseServiceSequence(data []byte) ([]ServiceConfig, error) {
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	// sort by start_order
	sort.SliceStable(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})

	return seq.Services, nil
}

// AutoRegisterServices builds every configured service with a known name.
// Unknown names are returned so the caller can report them.
func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) []string {
	var unknown []string
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			unknown = append(unknown, svc.Name)
			continue
		}
		am.RegisterService(constructor(svc.Config))
	}

	for _, svc := range am.services {
		if l, ok := svc.(*logger.LoggerService); ok {
			logger.SetGlobalLogger(l)
			break
		}
	}
	return unknown
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}

/*
Example services.yaml:
services:
  - name: logger
    start_order: 1
    config:
      folder_path: ./logs
      max_file_mb: 20
      retention_days: 14
  - name: auth
    start_order: 2
    config:
      session_timeout: 480
  - name: portal
    start_order: 3
    config:
      port: 8080
  - name: cron
    start_order: 4
    config:
      snapshot_schedule: "0 2 * * *"
  - name: resourcemanager
    start_order: 5
    config:
      heartbeat_interval: 30s
*/
