package main

import (
	"context"
	"log"
	"time"

	"github.com/kavira-ai/voicecore/internal/config"
	"github.com/kavira-ai/voicecore/internal/db"
	"github.com/kavira-ai/voicecore/internal/httpapi"
	"github.com/kavira-ai/voicecore/internal/memory"
	"github.com/kavira-ai/voicecore/internal/store/rabbitmq"
	"github.com/kavira-ai/voicecore/internal/store/redisstore"
)

func main() {
	cfg := config.Load()

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	store := memory.NewStore(gdb)
	if err := store.Initialize(context.Background()); err != nil {
		log.Fatalf("initialize storage: %v", err)
	}
	mgr := memory.NewManager(store)

	var cache *redisstore.Store
	if cfg.RedisAddr != "" {
		cache = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			time.Duration(cfg.ContextCacheTTL)*time.Second)
		defer cache.Close()
	}

	var events *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Printf("event queue unavailable, async appends disabled: %v", err)
		} else {
			events = p
			defer events.Close()
		}
	}

	r := httpapi.NewRouter(cfg, mgr, cache, events)

	log.Printf("memory service listening on %s (driver=%s)", cfg.HTTPAddr, cfg.DBDriver)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
