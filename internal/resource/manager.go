package resource

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"CollectPortal/internal/logger"
)

// Probe reports whether a dependency such as the record store is reachable.
type Probe func(ctx context.Context) error

type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// ResourceManager runs every registered probe on a heartbeat and keeps the
// latest result of each.
type ResourceManager struct {
	probes            map[string]Probe
	status            map[string]Status
	mu                sync.RWMutex
	stopChan          chan struct{}
	heartbeatInterval time.Duration
	probeTimeout      time.Duration
}

func NewResourceManagerService(cfg map[string]interface{}) *ResourceManager {
	interval := 30 * time.Second
	if val, ok := cfg["heartbeat_interval"]; ok {
		switch v := val.(type) {
		case string:
			if d, err := time.ParseDuration(v); err == nil {
				interval = d
			}
		case int:
			interval = time.Duration(v) * time.Second
		case float64:
			interval = time.Duration(v) * time.Second
		}
	}
	return &ResourceManager{
		probes:            make(map[string]Probe),
		status:            make(map[string]Status),
		stopChan:          make(chan struct{}),
		heartbeatInterval: interval,
		probeTimeout:      5 * time.Second,
	}
}

func (rm *ResourceManager) Name() string { return "resourcemanager" }

func (rm *ResourceManager) Start() error {
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("ResourceManager started, %d probes every %s", len(rm.ListResources()), rm.heartbeatInterval))
	}
	rm.CheckAll(context.Background())
	go rm.heartbeatLoop()
	return nil
}

func (rm *ResourceManager) Stop() error {
	close(rm.stopChan)
	return nil
}

func (rm *ResourceManager) heartbeatLoop() {
	ticker := time.NewTicker(rm.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rm.stopChan:
			return
		case <-ticker.C:
			rm.CheckAll(context.Background())
		}
	}
}

// CheckAll runs every probe once and returns the results sorted by name.
// A resource that turns unhealthy or recovers is logged.
func (rm *ResourceManager) CheckAll(ctx context.Context) []Status {
	rm.mu.RLock()
	probes := make(map[string]Probe, len(rm.probes))
	for name, p := range rm.probes {
		probes[name] = p
	}
	rm.mu.RUnlock()

	for name, probe := range probes {
		pctx, cancel := context.WithTimeout(ctx, rm.probeTimeout)
		err := probe(pctx)
		cancel()

		st := Status{Name: name, Healthy: err == nil, CheckedAt: time.Now()}
		if err != nil {
			st.Error = err.Error()
		}
		rm.mu.Lock()
		prev, seen := rm.status[name]
		rm.status[name] = st
		rm.mu.Unlock()

		switch {
		case !st.Healthy && (!seen || prev.Healthy):
			log.Printf("[WARN] resource %s unhealthy: %s", name, st.Error)
		case st.Healthy && seen && !prev.Healthy:
			log.Printf("[INFO] resource %s recovered", name)
		}
	}
	return rm.Snapshot()
}

// Snapshot returns the latest probe results sorted by name.
func (rm *ResourceManager) Snapshot() []Status {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	out := make([]Status, 0, len(rm.status))
	for _, st := range rm.status {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (rm *ResourceManager) AddResource(name string, probe Probe) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.probes[name] = probe
}

func (rm *ResourceManager) RemoveResource(name string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.probes, name)
	delete(rm.status, name)
}

func (rm *ResourceManager) ListResources() []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	keys := make([]string, 0, len(rm.probes))
	for key := range rm.probes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
