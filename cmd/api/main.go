package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"goldenkey/pkg/api/analyze"
	apiconfig "goldenkey/pkg/api/config"
	apinews "goldenkey/pkg/api/news"
	"goldenkey/pkg/core/agent"
	"goldenkey/pkg/core/news"
	"goldenkey/pkg/core/pipeline"
	"goldenkey/pkg/core/prompt"
	"goldenkey/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		// Try from executable directory
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to built-in prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}
	prompt.RegisterBuiltins()

	// Initialize agent manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr := agent.NewManager(agentCfg)

	// Pipeline orchestrator with optional persistence
	orchestrator := pipeline.NewOrchestrator(agentMgr)
	ctx := context.Background()
	var repo store.AnalysisRepository
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[WARNING] Database unavailable, reports will not persist: %v\n", err)
		orchestrator.SetQuoteCache(store.NewQuoteCache(nil, "", 0))
	} else {
		defer store.Close()
		repo = store.NewAnalysisRepo()
		orchestrator.SetRepository(repo)
		orchestrator.SetQuoteCache(store.NewQuoteCache(store.GetPool(), "", 0))
	}

	// Config endpoints
	configHandler := apiconfig.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Analysis endpoints
	analyzeHandler := analyze.NewHandler(orchestrator, agentMgr)
	analyzeHandler.Repo = repo
	http.HandleFunc("/api/analyze/fundamental", analyzeHandler.HandleFundamental)
	http.HandleFunc("/api/analyze/technical", analyzeHandler.HandleTechnical)
	http.HandleFunc("/api/analyze/pe", analyzeHandler.HandlePE)
	http.HandleFunc("/api/analyze/comprehensive", analyzeHandler.HandleComprehensive)
	http.HandleFunc("/api/overview", analyzeHandler.HandleOverview)
	http.HandleFunc("/api/report", analyzeHandler.HandleReport)
	http.HandleFunc("/api/reports", analyzeHandler.HandleReports)

	// News endpoints
	var newsRepo *store.NewsRepo
	if store.GetPool() != nil {
		newsRepo = store.NewNewsRepo(store.GetPool())
	}
	newsHandler := apinews.NewHandler(news.NewScraper(), newsRepo)
	http.HandleFunc("/api/news", newsHandler.HandleHeadlines)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - POST /api/analyze/fundamental")
	fmt.Println("  - POST /api/analyze/technical")
	fmt.Println("  - POST /api/analyze/pe")
	fmt.Println("  - POST /api/analyze/comprehensive")
	fmt.Println("  - GET  /api/overview")
	fmt.Println("  - GET  /api/report")
	fmt.Println("  - GET  /api/reports")
	fmt.Println("  - GET  /api/news")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
