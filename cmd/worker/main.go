package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kavira-ai/voicecore/internal/config"
	"github.com/kavira-ai/voicecore/internal/db"
	"github.com/kavira-ai/voicecore/internal/memory"
	"github.com/kavira-ai/voicecore/internal/store/rabbitmq"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

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

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(cfg.RabbitQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitQueue + ".dlq",
	}); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Deliveries drained during shutdown still need a live context for their
	// writes; only the dispatcher loop watches the signal.
	workCtx := context.WithoutCancel(ctx)

	log.Printf("worker started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	events := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range events {
				var ev rabbitmq.TurnEvent
				if err := json.Unmarshal(d.Body, &ev); err != nil || ev.Kind == "" {
					log.Printf("worker=%d bad event: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := handleEvent(workCtx, mgr, ev); err != nil {
					log.Printf("worker=%d event %s kind=%s failed cost=%s err=%v",
						workerID, ev.JobID, ev.Kind, time.Since(start), err)
					_ = d.Nack(false, false)
					continue
				}

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed event=%s err=%v", workerID, ev.JobID, err)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(events)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			events <- d
		}
	}
}

func handleEvent(ctx context.Context, mgr *memory.Manager, ev rabbitmq.TurnEvent) error {
	switch ev.Kind {
	case rabbitmq.KindMessage:
		return mgr.AddMessage(ctx, ev.ConversationID, ev.Role, ev.Content, ev.Metadata)

	case rabbitmq.KindProfileUpdate:
		// Full-overwrite save, same as the synchronous API path.
		var phone *string
		if ev.PhoneNumber != "" {
			phone = &ev.PhoneNumber
		}
		return mgr.UpdateUserProfile(ctx, ev.UserID, memory.ProfileData{PhoneNumber: phone})

	default:
		log.Printf("unknown event kind %q, dropping", ev.Kind)
		return nil
	}
}
