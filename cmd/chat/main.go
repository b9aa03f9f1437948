package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	assistant "github.com/schedmate/go-assistant"
	"github.com/schedmate/go-assistant/src/calendar"
	"github.com/schedmate/go-assistant/src/config"
	"github.com/schedmate/go-assistant/src/models"
	"github.com/schedmate/go-assistant/src/tools"
)

func main() {
	provider := flag.String("provider", "", "Model provider override (openai, anthropic, gemini, ollama, dummy)")
	modelName := flag.String("model", "", "Model name override")
	message := flag.String("message", "", "Send a single message and exit")
	timeout := flag.Duration("timeout", 60*time.Second, "Per-turn timeout")
	jsonOut := flag.Bool("json", false, "Print replies as JSON objects")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *modelName != "" {
		cfg.Model = *modelName
	}

	ctx := context.Background()

	api, err := calendar.NewGoogleAPI(ctx, cfg.GoogleCredsJSON, cfg.CalendarID, cfg.Timezone)
	if err != nil {
		log.Fatalf("failed to connect to Google Calendar: %v", err)
	}
	sched := calendar.NewScheduler(api, cfg.Location())

	model, err := models.NewLLMProvider(ctx, cfg.Provider, cfg.Model, "")
	if err != nil {
		log.Fatalf("failed to create %s model: %v", cfg.Provider, err)
	}
	model = models.TryCreateCachedLLM(model)

	agent, err := assistant.New(assistant.Options{
		Model: model,
		Tools: tools.CalendarTools(sched, tools.Conventions{
			CurrentYear:  cfg.CurrentYear,
			CurrentMonth: cfg.CurrentMonth,
		}),
		TranscriptLimit: cfg.TranscriptLimit,
	})
	if err != nil {
		log.Fatalf("failed to build assistant: %v", err)
	}

	if *message != "" {
		reply, err := respond(agent, *message, *timeout)
		if err != nil {
			log.Fatalf("chat turn failed: %v", err)
		}
		emit(reply, *jsonOut)
		return
	}

	fmt.Println("Calendar assistant. Type a message and press enter (empty line exits).")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			fmt.Println("Goodbye!")
			return
		}
		reply, err := respond(agent, line, *timeout)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		emit(reply, *jsonOut)
	}
}

func respond(agent *assistant.Assistant, message string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return agent.Respond(ctx, message)
}

func emit(reply string, asJSON bool) {
	if !asJSON {
		fmt.Println(reply)
		return
	}
	out, err := json.Marshal(map[string]string{"response": reply})
	if err != nil {
		fmt.Println(reply)
		return
	}
	fmt.Println(string(out))
}
