package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"CollectPortal/internal/appmanager"
	"CollectPortal/internal/caseimport"
	"CollectPortal/internal/config"
	"CollectPortal/internal/store"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// Load .env for local dev
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	kv, closeKV, err := store.OpenKV(ctx, store.OptionsFromEnv())
	cancel()
	if err != nil {
		log.Fatal("failed to open record store:", err)
	}
	defer closeKV()
	appmanager.SetStore(store.NewRecordStore(kv))
	appmanager.AddProbe("store", func(ctx context.Context) error {
		_, err := kv.Get(ctx, config.CasesStorageKey)
		return err
	})

	if path := os.Getenv("ALIASES_CONFIG"); path != "" {
		aliases, err := caseimport.LoadAliasTable(path)
		if err != nil {
			log.Fatal("failed to load column aliases:", err)
		}
		appmanager.SetAliases(aliases)
	}

	manager := appmanager.NewAppManager()

	// Load service configs from YAML
	servicesCfg, err := appmanager.LoadServiceSequence(envOr("SERVICES_CONFIG", "services.yaml"))
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}
	if schedule := os.Getenv("SNAPSHOT_SCHEDULE"); schedule != "" {
		for i := range servicesCfg {
			if servicesCfg[i].Name != "cron" {
				continue
			}
			if servicesCfg[i].Config == nil {
				servicesCfg[i].Config = map[string]interface{}{}
			}
			servicesCfg[i].Config["snapshot_schedule"] = schedule
		}
	}

	for _, name := range manager.AutoRegisterServices(servicesCfg) {
		log.Printf("[WARN] unknown service %q in services config, skipped", name)
	}

	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
}
