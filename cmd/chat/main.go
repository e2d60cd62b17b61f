// Command chat is a terminal client for the relay: a bufio REPL over one
// conversation manager. Messages go straight to the relay; slash commands
// manage reference documents.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"parley.app/relay/common/id"
	"parley.app/relay/internal/conversation"
)

func main() {
	ctx := context.Background()

	// Load .env file (ignore error if not found)
	_ = godotenv.Load()

	relayURL := getEnv("RELAY_URL", "http://localhost:8080/api/v1/chat")

	if err := id.Init(1); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize id generator: %v\n", err)
		os.Exit(1)
	}

	relay := conversation.NewHTTPRelay(relayURL)
	defer relay.Close()
	manager := conversation.NewManager(relay)

	fmt.Fprintf(os.Stderr, "Relay: %s\n", relayURL)
	fmt.Println("Type a message, or /help for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(manager, line); quit {
				break
			}
			continue
		}

		if err := manager.Submit(ctx, line); err != nil {
			if errors.Is(err, conversation.ErrCompletionInFlight) {
				fmt.Println("Still waiting for the previous reply.")
				continue
			}
			fmt.Fprintf(os.Stderr, "submit failed: %v\n", err)
			continue
		}

		transcript := manager.Transcript()
		if len(transcript) > 0 {
			last := transcript[len(transcript)-1]
			fmt.Printf("bot: %s\n", last.Content)
		}
	}
}

func runCommand(manager *conversation.Manager, line string) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/help":
		fmt.Println(`/upload <path>  upload a plain-text file as a reference document
/files          list uploaded documents
/select <n>     inject document n into the conversation context
/deselect       stop injecting the selected document
/delete <n>     remove document n
/quit           exit`)

	case "/upload":
		if len(fields) < 2 {
			fmt.Println("usage: /upload <path>")
			return false
		}
		path := fields[1]
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			return false
		}
		// The browser client trusts the declared MIME type; here the
		// extension is the declaration.
		mimeType := "text/plain"
		if ext := filepath.Ext(path); ext != ".txt" && ext != "" {
			mimeType = "application/octet-stream"
		}
		if err := manager.UploadDocument(filepath.Base(path), mimeType, data); err != nil {
			fmt.Println("Please upload a text file (.txt)")
			return false
		}
		fmt.Printf("uploaded %s (%d chars)\n", filepath.Base(path), len(data))

	case "/files":
		docs := manager.Documents()
		if len(docs) == 0 {
			fmt.Println("no documents uploaded")
			return false
		}
		selected, hasSelection := manager.SelectedDocument()
		for i, doc := range docs {
			marker := " "
			if hasSelection && doc.ID == selected.ID {
				marker = "*"
			}
			fmt.Printf("%s %d: %s (%d chars)\n", marker, i, doc.Name, len(doc.Content))
		}

	case "/select":
		index, ok := parseIndex(fields)
		if !ok {
			fmt.Println("usage: /select <n>")
			return false
		}
		if err := manager.SelectDocument(index); err != nil {
			fmt.Fprintf(os.Stderr, "select: %v\n", err)
			return false
		}
		fmt.Println("selected")

	case "/deselect":
		manager.Deselect()

	case "/delete":
		index, ok := parseIndex(fields)
		if !ok {
			fmt.Println("usage: /delete <n>")
			return false
		}
		if err := manager.DeleteDocument(index); err != nil {
			fmt.Fprintf(os.Stderr, "delete: %v\n", err)
		}

	case "/quit", "/exit":
		return true

	default:
		fmt.Printf("unknown command %s (try /help)\n", fields[0])
	}
	return false
}

func parseIndex(fields []string) (int, bool) {
	if len(fields) < 2 {
		return 0, false
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return index, true
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
