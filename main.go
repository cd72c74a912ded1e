package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/ubermorgenland/mcp-mesh/pkg/demo"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h" || os.Args[1] == "help") {
		printHelp()
		return
	}

	cfg, err := demo.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	cfg.LogConfiguration()

	ctx := context.Background()
	runner := demo.NewRunner(cfg, os.Stdout)

	if cfg.Interactive {
		if err := runInteractive(ctx, runner); err != nil {
			log.Fatalf("Interactive session failed: %v", err)
		}
		return
	}

	if err := runner.Run(ctx); err != nil {
		log.Fatalf("Demo failed: %v", err)
	}
}

// runInteractive drives the scenario menu until the user quits
func runInteractive(ctx context.Context, runner *demo.Runner) error {
	rl, err := readline.New("mesh> ")
	if err != nil {
		return fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer rl.Close()

	printMenu()
	for {
		line, err := rl.Readline()
		if err != nil {
			// Ctrl-C and Ctrl-D both end the session
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Println("Bye.")
				return nil
			}
			return err
		}

		switch strings.TrimSpace(line) {
		case "1":
			runScenario(ctx, runner, demo.ScenarioProvider)
		case "2":
			runScenario(ctx, runner, demo.ScenarioConsumer)
		case "3":
			runScenario(ctx, runner, demo.ScenarioOrchestrator)
		case "4":
			runScenario(ctx, runner, demo.RunEverything)
		case "q", "quit", "exit":
			fmt.Println("Bye.")
			return nil
		case "":
			// ignore empty input
		default:
			printMenu()
		}
	}
}

func runScenario(ctx context.Context, runner *demo.Runner, n int) {
	if err := runner.RunScenario(ctx, n); err != nil {
		log.Printf("Scenario failed: %v", err)
	}
	fmt.Println()
}

func printMenu() {
	fmt.Println("Select a demo:")
	fmt.Println("  1. Provider demo (direct registry calls)")
	fmt.Println("  2. Consumer demo (calls over a connection)")
	fmt.Println("  3. Orchestrator demo (coordinated workflow)")
	fmt.Println("  4. Run all demos")
	fmt.Println("  q. Quit")
}

func printHelp() {
	fmt.Println("mcp-mesh - multi-agent capability mesh demo")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mcp-mesh [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -i, --interactive     Interactive scenario menu")
	fmt.Println("      --scenario <n>    Run a single scenario (1-3), or 4 for all")
	fmt.Println("      --topology <file> Build the mesh from a YAML topology file")
	fmt.Println("      --trace           Print response payloads as JSON")
	fmt.Println("      --no-color        Disable colored output")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  MESH_TOPOLOGY  Topology file (same as --topology)")
	fmt.Println("  MESH_TRACE     Enable trace output (same as --trace)")
	fmt.Println("  NO_COLOR       Disable colored output")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  mcp-mesh                          # run every demo")
	fmt.Println("  mcp-mesh --scenario 3 --trace     # orchestrator demo with payloads")
	fmt.Println("  mcp-mesh -i                       # pick demos from a menu")
}
