// ABOUTME: Command-line benchmark runner for the storage hot paths
// ABOUTME: Seeds synthetic chats/messages and times list and search operations

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/chatstash/internal/models"
	"github.com/harper/chatstash/internal/storage/sqlite"
)

func main() {
	// Command-line flags
	chats := flag.Int("chats", 100, "Number of chats to seed")
	messages := flag.Int("messages", 50, "Messages per chat")
	iterations := flag.Int("iterations", 100, "Iterations per timed operation")
	keep := flag.Bool("keep", false, "Keep the benchmark database on disk after the run")
	flag.Parse()

	dir, err := os.MkdirTemp("", "chatstash-bench-")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	if !*keep {
		defer os.RemoveAll(dir)
	}
	dbPath := filepath.Join(dir, "bench.db")

	store, err := sqlite.NewStorageWithPath(dbPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	fmt.Println("========================================")
	fmt.Println("chatstash Storage Benchmarks")
	fmt.Println("========================================")
	fmt.Printf("Database: %s\n", dbPath)
	fmt.Printf("Seeding %d chats x %d messages...\n", *chats, *messages)

	chatIDs := make([]string, 0, *chats)
	seedStart := time.Now()
	for i := 0; i < *chats; i++ {
		chat := models.NewChat(fmt.Sprintf("Benchmark chat %d", i), "bench-model")
		if err := store.AddChat(chat); err != nil {
			log.Fatalf("Failed to seed chat %d: %v", i, err)
		}
		chatIDs = append(chatIDs, chat.ID)

		for j := 0; j < *messages; j++ {
			role := models.RoleUser
			if j%2 == 1 {
				role = models.RoleAssistant
			}
			msg := models.NewMessage(chat.ID, role,
				fmt.Sprintf("Synthetic message %d in chat %d about topic-%d", j, i, j%7))
			if err := store.AddMessage(msg); err != nil {
				log.Fatalf("Failed to seed message: %v", err)
			}
		}
	}
	seedDur := time.Since(seedStart)
	total := *chats * *messages
	fmt.Printf("Seeded %d messages in %v (%.0f rows/s)\n\n",
		total, seedDur.Round(time.Millisecond), float64(total+*chats)/seedDur.Seconds())

	// Hot path 1: per-chat message listing (chat_id index)
	listDur := timeOp(*iterations, func(i int) {
		msgs := store.ListChatMessages(chatIDs[i%len(chatIDs)])
		if len(msgs) != *messages {
			log.Fatalf("ListChatMessages returned %d messages, want %d", len(msgs), *messages)
		}
	})
	report("ListChatMessages", *iterations, listDur)

	// Hot path 2: full-table message search
	searchDur := timeOp(*iterations, func(i int) {
		if res := store.SearchMessages(fmt.Sprintf("topic-%d", i%7), ""); len(res) == 0 {
			log.Fatal("SearchMessages returned no results on seeded data")
		}
	})
	report("SearchMessages (all chats)", *iterations, searchDur)

	// Hot path 3: chat-scoped message search
	scopedDur := timeOp(*iterations, func(i int) {
		store.SearchMessages("topic-3", chatIDs[i%len(chatIDs)])
	})
	report("SearchMessages (one chat)", *iterations, scopedDur)

	// Hot path 4: chat title search
	titleDur := timeOp(*iterations, func(i int) {
		if res := store.SearchChats("benchmark"); len(res) != *chats {
			log.Fatalf("SearchChats returned %d chats, want %d", len(res), *chats)
		}
	})
	report("SearchChats", *iterations, titleDur)

	info, err := store.StorageInfo()
	if err != nil {
		log.Fatalf("Failed to read storage info: %v", err)
	}
	fmt.Println("\n========================================")
	fmt.Printf("Rows: %d chats, %d messages\n", info.ChatCount, info.MessageCount)
	fmt.Printf("Size: %d bytes\n", info.BytesUsed)
	fmt.Println("========================================")

	if *keep {
		fmt.Printf("Database kept at %s\n", dbPath)
	}
}

func timeOp(iterations int, op func(i int)) time.Duration {
	start := time.Now()
	for i := 0; i < iterations; i++ {
		op(i)
	}
	return time.Since(start)
}

func report(name string, iterations int, dur time.Duration) {
	fmt.Printf("%-28s %6d iters  total %-10v avg %v\n",
		name, iterations, dur.Round(time.Millisecond), (dur / time.Duration(iterations)).Round(time.Microsecond))
}
