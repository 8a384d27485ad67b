package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "journey":
		journeyCmd(apiURL, args)
	case "anon":
		anonCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`EcoTrace Simulator - Development tool for seeding demo journeys

USAGE:
  simulator <command> [options]

COMMANDS:
  journey   Register a demo user, analyze a series of products and save a comparison
  anon      Anonymous-token smoke test: analyze one product and read it back
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Seed a full demo journey with the default product list
  simulator journey

  # Seed only the first 3 products
  simulator journey --count=3

  # Quick anonymous round trip against a running backend
  simulator anon`)
}

// demoProducts is enough variety to light up categories, trend and
// milestones in the journey view.
var demoProducts = []string{
	"bamboo toothbrush",
	"plastic water bottle",
	"organic cotton t-shirt",
	"recycled paper notebook",
	"solar phone charger",
	"glass food containers",
}

func journeyCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("journey", flag.ExitOnError)
	count := fs.Int("count", len(demoProducts), "Number of demo products to analyze")
	fs.Parse(args)

	if *count < 1 || *count > len(demoProducts) {
		fmt.Printf("Error: --count must be between 1 and %d\n", len(demoProducts))
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== EcoTrace Simulator: Demo Journey ===")
	fmt.Println()

	// 1. Register a demo user
	fmt.Print("Registering demo user... ")
	user, token, err := client.RegisterUser("demo")
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (email: %s)\n", user.Email)

	// 2. Analyze products
	fmt.Println()
	fmt.Printf("Analyzing %d products:\n", *count)

	var analyzed []*ProductAnalysis
	for i, query := range demoProducts[:*count] {
		analysis, err := client.AnalyzeProduct(token, query, false)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to analyze %q: %v\n", i+1, *count, query, err)
			os.Exit(1)
		}
		analyzed = append(analyzed, analysis)
		fmt.Printf("  [%d/%d] %s: eco score %d\n", i+1, *count, analysis.ProductInfo.Name, analysis.EcoScore)
	}

	// 3. Save a comparison of the first two analyses
	if len(analyzed) >= 2 {
		fmt.Println()
		fmt.Print("Saving a comparison of the first two products... ")
		products := []json.RawMessage{analyzed[0].Raw, analyzed[1].Raw}
		if err := client.CreateComparison(token, products, "seeded by simulator"); err != nil {
			fmt.Printf("FAILED\n  Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("OK")
	}

	// 4. Read the journey back
	fmt.Println()
	fmt.Print("Fetching journey... ")
	journey, err := client.GetJourney(token)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	stats := journey.Journey.Stats
	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  DEMO JOURNEY SEEDED")
	fmt.Println("=========================================")
	fmt.Println()
	fmt.Printf("  User:        %s\n", user.Email)
	fmt.Printf("  Token:       %s\n", token)
	fmt.Printf("  Analyses:    %d\n", stats.TotalAnalyses)
	fmt.Printf("  Comparisons: %d\n", stats.TotalComparisons)
	fmt.Printf("  Avg score:   %.1f (best %d, worst %d)\n", stats.AverageEcoScore, stats.BestEcoScore, stats.WorstEcoScore)
	if len(stats.FavoriteCategories) > 0 {
		fmt.Printf("  Categories:  %s\n", strings.Join(stats.FavoriteCategories, ", "))
	}
	if len(journey.Journey.Milestones) > 0 {
		fmt.Println()
		fmt.Println("  Milestones:")
		for _, milestone := range journey.Journey.Milestones {
			fmt.Printf("    - %s\n", milestone)
		}
	}
	if len(journey.Insights) > 0 {
		fmt.Println()
		fmt.Println("  Insights:")
		for _, insight := range journey.Insights {
			fmt.Printf("    - %s\n", insight)
		}
	}
	fmt.Println()
	fmt.Println("  Use the token above in the X-User-Token header to explore the API.")
	fmt.Println()
}

func anonCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("anon", flag.ExitOnError)
	query := fs.String("query", "bamboo toothbrush", "Product to analyze")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	fmt.Println("=== EcoTrace Simulator: Anonymous Smoke Test ===")
	fmt.Println()

	fmt.Print("Requesting anonymous token... ")
	token, err := client.AnonymousToken()
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	fmt.Print("Validating token... ")
	validation, err := client.ValidateToken(token)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	if !validation.Valid {
		fmt.Println("FAILED\n  Error: backend reports token as invalid")
		os.Exit(1)
	}
	fmt.Printf("OK (user: %s)\n", validation.User.ID)

	fmt.Printf("Analyzing %q... ", *query)
	analysis, err := client.AnalyzeProduct(token, *query, false)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (eco score %d)\n", analysis.EcoScore)

	fmt.Print("Reading history back... ")
	history, err := client.GetHistory(token)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%d entries)\n", history.TotalCount)

	fmt.Println()
	fmt.Println("All good. Anonymous flow works end to end.")
	fmt.Printf("Token: %s\n", token)
}
