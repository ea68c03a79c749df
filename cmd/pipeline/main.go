package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"goldenkey/pkg/core/agent"
	"goldenkey/pkg/core/pipeline"
	"goldenkey/pkg/core/prompt"
	"goldenkey/pkg/core/store"
)

func main() {
	symbolsFlag := flag.String("symbols", "", "comma-separated HOSE symbols, e.g. FPT,VNM,HPG")
	overviewOnly := flag.Bool("overview", false, "print the quantitative overview only, no model calls")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	if *symbolsFlag == "" {
		log.Fatal("Error: -symbols is required, e.g. -symbols FPT,VNM")
	}
	var symbols []string
	for _, s := range strings.Split(*symbolsFlag, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}

	prompt.RegisterBuiltins()

	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr := agent.NewManager(agentCfg)

	orchestrator := pipeline.NewOrchestrator(agentMgr)
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("Warning: database unavailable, using file cache only: %v\n", err)
		orchestrator.SetQuoteCache(store.NewQuoteCache(nil, "", 0))
	} else {
		defer store.Close()
		orchestrator.SetRepository(store.NewAnalysisRepo())
		orchestrator.SetQuoteCache(store.NewQuoteCache(store.GetPool(), "", 0))
	}

	if *overviewOnly {
		for _, symbol := range symbols {
			overview, err := orchestrator.QuickOverview(ctx, symbol)
			if err != nil {
				fmt.Printf("%s: overview failed: %v\n", symbol, err)
				continue
			}
			fmt.Printf("%-8s price=%s  PE=%s  dupont_quarters=%d\n",
				overview.Symbol, fmtPtr(overview.LatestPrice), fmtPtr(overview.LatestPE), len(overview.DuPont))
		}
		return
	}

	reports, failures := orchestrator.RunBatch(ctx, symbols)

	fmt.Println("\n================ BATCH SUMMARY ================")
	for _, report := range reports {
		rating, target := "N/A", 0.0
		if report.Advisor != nil {
			rating = report.Advisor.OverallRating
			target = report.Advisor.TargetPrice
		}
		fmt.Printf("%-8s run=%s  rating=%-5s  target=%.1f\n", report.Symbol, report.RunID, rating, target)
	}
	for symbol, err := range failures {
		fmt.Printf("%-8s FAILED: %v\n", symbol, err)
	}
	fmt.Printf("Done: %d succeeded, %d failed.\n", len(reports), len(failures))
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}
