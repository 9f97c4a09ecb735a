// memctl is the operator CLI for the memory store: initialize the database
// or inspect a user's recent conversations.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/kavira-ai/voicecore/internal/config"
	"github.com/kavira-ai/voicecore/internal/db"
	"github.com/kavira-ai/voicecore/internal/memory"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: memctl <init|view> [user_id]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()
	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	store := memory.NewStore(gdb)
	defer store.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "init":
		if err := store.Initialize(ctx); err != nil {
			log.Fatalf("initialize: %v", err)
		}
		tables, err := store.VerifyTables(ctx)
		if err != nil {
			log.Fatalf("verify tables: %v", err)
		}
		fmt.Println("Memory database initialized successfully!")
		fmt.Printf("   Location: %s\n", cfg.DBPath)
		for name, ok := range tables {
			fmt.Printf("   %s: %v\n", name, ok)
		}

	case "view":
		if len(os.Args) < 3 {
			usage()
		}
		userID := os.Args[2]

		if err := store.Initialize(ctx); err != nil {
			log.Fatalf("initialize: %v", err)
		}

		conversations, err := store.GetUserConversations(ctx, userID, 10)
		if err != nil {
			log.Fatalf("get conversations: %v", err)
		}

		fmt.Printf("Conversations for user: %s\n", userID)
		for _, conv := range conversations {
			fmt.Printf("\n  Conversation: %s\n", conv.ConversationID)
			fmt.Printf("  Started: %s\n", conv.StartTime)
			fmt.Printf("  Metadata: %v\n", conv.Metadata)

			messages, err := store.GetConversationHistory(ctx, conv.ConversationID, 50)
			if err != nil {
				log.Fatalf("get history: %v", err)
			}
			fmt.Printf("  Messages: %d\n", len(messages))

			for i, msg := range messages {
				if i >= 5 {
					break
				}
				content := msg.Content
				if len(content) > 100 {
					content = content[:100] + "..."
				}
				fmt.Printf("    [%s] %s\n", msg.Role, content)
			}
		}

	default:
		usage()
	}
}
