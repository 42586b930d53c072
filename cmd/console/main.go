package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type ConsoleConfig struct {
	APIBaseURL string
	SelfID     string
	Players    []string
	Timeout    time.Duration
}

// defaultRoster seeds a 12-player table when PLAYERS is not set. The
// agent plays the first seat.
const defaultRoster = "rose,felix,iris,piotr,wanda,silas,greta,hugo,nadia,omar,tessa,yuri"

func main() {
	players := strings.Split(getEnv("PLAYERS", defaultRoster), ",")
	for i := range players {
		players[i] = strings.TrimSpace(players[i])
	}

	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		SelfID:     getEnv("SELF_ID", players[0]),
		Players:    players,
		Timeout:    30 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
