package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := "http://localhost:8001"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "pilgrims":
		pilgrimsCmd(apiURL, args)
	case "explore":
		exploreCmd(apiURL, args)
	case "chat":
		chatCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Pilgrim Simulator - Development tool for exercising the temple API

USAGE:
  simulator <command> [options]

COMMANDS:
  pilgrims  Register fake users and have each save random temples
  explore   List temples, optionally filtered by state and deity
  chat      Ask Mitra a question over REST or the websocket
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8001)

EXAMPLES:
  # Five pilgrims, each saving up to three temples
  simulator pilgrims --count=5 --saves=3

  # Shiva temples in Tamil Nadu
  simulator explore --state="Tamil Nadu" --deity=shiva

  # Two questions over one websocket connection
  simulator chat --ws "What is Rath Yatra?" "When is it celebrated?"`)
}

func pilgrimsCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("pilgrims", flag.ExitOnError)
	count := fs.Int("count", 3, "Number of fake users to create")
	saves := fs.Int("saves", 2, "Temples each user saves")
	fs.Parse(args)

	if *count < 1 || *count > 100 {
		fmt.Println("Error: --count must be between 1 and 100")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== Pilgrim Simulator ===")
	fmt.Println()

	temples, err := client.ListTemples("", "")
	if err != nil {
		fmt.Printf("Failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	if len(temples) == 0 {
		fmt.Println("Catalog is empty; nothing to save.")
		os.Exit(1)
	}
	fmt.Printf("Catalog has %d temples\n\n", len(temples))

	for i := 1; i <= *count; i++ {
		user, token, err := client.RegisterUser(fmt.Sprintf("Pilgrim%d", i))
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to create user: %v\n", i, *count, err)
			os.Exit(1)
		}

		picks := rand.Perm(len(temples))
		if len(picks) > *saves {
			picks = picks[:*saves]
		}
		for _, idx := range picks {
			if err := client.SaveTemple(token, temples[idx].ID); err != nil {
				fmt.Printf("  [%d/%d] FAILED to save %s: %v\n", i, *count, temples[idx].Name, err)
				os.Exit(1)
			}
		}

		saved, err := client.SavedTemples(token)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to list saved temples: %v\n", i, *count, err)
			os.Exit(1)
		}
		names := make([]string, len(saved))
		for j, t := range saved {
			names[j] = t.Name
		}
		fmt.Printf("  [%d/%d] %s (%s) saved: %s\n", i, *count, user.Username, user.Email, strings.Join(names, ", "))
	}
}

func exploreCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("explore", flag.ExitOnError)
	state := fs.String("state", "", "Exact state name")
	deity := fs.String("deity", "", "Deity substring, case-insensitive")
	fs.Parse(args)

	client := NewAPIClient(apiURL)
	temples, err := client.ListTemples(*state, *deity)
	if err != nil {
		fmt.Printf("Failed to list temples: %v\n", err)
		os.Exit(1)
	}

	if len(temples) == 0 {
		fmt.Println("No temples match.")
		return
	}
	for _, t := range temples {
		fmt.Printf("%s\n  %s, %s | %s\n  Festivals: %s\n  ID: %s\n\n",
			t.Name, t.Location, t.State, t.Deity, strings.Join(t.Festivals, ", "), t.ID)
	}
}

func chatCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	useWS := fs.Bool("ws", false, "Use the websocket endpoint")
	email := fs.String("email", "", "Log in as this user instead of registering a new one")
	password := fs.String("password", "testpassword123", "Password for --email")
	fs.Parse(args)

	messages := fs.Args()
	if len(messages) == 0 {
		fmt.Println("Error: at least one message is required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	var (
		user  *User
		token string
		err   error
	)
	if *email != "" {
		user, token, err = client.Login(*email, *password)
	} else {
		user, token, err = client.RegisterUser("Seeker")
	}
	if err != nil {
		fmt.Printf("Failed to authenticate: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Chatting as %s\n\n", user.Username)

	if *useWS {
		replies, err := client.ChatWS(token, messages)
		for i, r := range replies {
			printExchange(messages[i], r)
		}
		if err != nil {
			fmt.Printf("Chat failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, msg := range messages {
		reply, err := client.Chat(token, msg)
		if err != nil {
			fmt.Printf("Chat failed: %v\n", err)
			os.Exit(1)
		}
		printExchange(msg, *reply)
	}
}

func printExchange(message string, reply ChatReply) {
	fmt.Printf("> %s\n%s\n(%s)\n\n", message, reply.Response, reply.Timestamp.Format("15:04:05"))
}
