package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ubermorgenland/mcp-mesh/pkg/demo"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

const defaultPath = "topology.yaml"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "init":
		handleInit()
	case "validate":
		handleValidate()
	case "show":
		handleShow()
	case "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Mesh Topology Manager")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  init [file]      Write the default topology to a file")
	fmt.Println("  validate [file]  Check a topology file for errors")
	fmt.Println("  show [file]      Build the mesh and print its agents and wiring")
	fmt.Println("  help             Show this help message")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  topology init")
	fmt.Println("  topology validate topology.yaml")
	fmt.Println("  topology show topology.yaml")
	fmt.Println("")
	fmt.Println("With no file argument, commands use " + defaultPath + ".")
}

func pathArg() string {
	if len(os.Args) > 2 {
		return os.Args[2]
	}
	return defaultPath
}

func handleInit() {
	path := pathArg()
	if _, err := os.Stat(path); err == nil {
		log.Fatalf("Refusing to overwrite existing file: %s", path)
	}
	if err := demo.WriteDefault(path); err != nil {
		log.Fatalf("Failed to write topology: %v", err)
	}
	fmt.Printf("✓ Wrote default topology to %s\n", path)
}

func handleValidate() {
	path := pathArg()
	topo, err := demo.LoadTopology(path)
	if err != nil {
		log.Fatalf("Invalid topology: %v", err)
	}
	fmt.Printf("✓ %s is valid: %d agents, %d connections\n", path, len(topo.Agents), len(topo.Connections))
}

func handleShow() {
	path := pathArg()

	topo, err := loadOrDefault(path)
	if err != nil {
		log.Fatalf("Failed to load topology: %v", err)
	}
	mesh, err := topo.Build(util.NopLogger{})
	if err != nil {
		log.Fatalf("Failed to build mesh: %v", err)
	}

	fmt.Printf("%-16s %-8s %-6s %-10s\n", "Agent", "State", "Tools", "Resources")
	fmt.Println(strings.Repeat("-", 64))
	for _, name := range mesh.AgentNames() {
		a, _ := mesh.Agent(name)
		fmt.Printf("%-16s %-8s %-6d %-10d\n",
			a.Name(), a.State(), a.Registry().ToolCount(), a.Registry().ResourceCount())
	}

	conns := mesh.Connections()
	fmt.Printf("\nConnections (%d):\n", len(conns))
	for _, conn := range conns {
		fmt.Printf("  %s -> %s\n", conn.Consumer(), conn.Provider())
	}
}

// loadOrDefault falls back to the built-in topology when the default file is
// absent, so `topology show` works out of the box.
func loadOrDefault(path string) (*demo.Topology, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && len(os.Args) <= 2 {
		return demo.DefaultTopology(), nil
	}
	return demo.LoadTopology(path)
}
