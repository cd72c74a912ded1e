// Package demo builds and narrates the example mesh: a provider agent with
// the stock toolkit, two consumer agents, and the orchestrated workflow that
// ties them together. The mesh layout comes from a YAML topology file or the
// built-in default.
package demo

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Scenario numbers accepted by the runner. RunEverything matches the
// interactive menu's "run all demos" entry.
const (
	RunEverything        = 0
	ScenarioProvider     = 1
	ScenarioConsumer     = 2
	ScenarioOrchestrator = 3
	scenarioAllAlias     = 4
)

// Config holds demo runner configuration
type Config struct {
	Interactive  bool
	Scenario     int
	TopologyPath string
	Trace        bool
	NoColor      bool
}

// LoadConfig loads configuration from environment variables and command line
// arguments.
func LoadConfig(args []string) (*Config, error) {
	config := &Config{}

	if path := os.Getenv("MESH_TOPOLOGY"); path != "" {
		config.TopologyPath = path
		log.Printf("Topology file from environment: %s", path)
	}
	if os.Getenv("MESH_TRACE") != "" {
		config.Trace = true
		log.Println("Trace mode enabled")
	}
	if os.Getenv("NO_COLOR") != "" {
		config.NoColor = true
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--interactive", "-i":
			config.Interactive = true
		case "--trace":
			config.Trace = true
		case "--no-color":
			config.NoColor = true
		case "--topology":
			if i+1 < len(args) {
				i++
				config.TopologyPath = args[i]
			}
		case "--scenario":
			if i+1 < len(args) {
				i++
				n, err := strconv.Atoi(args[i])
				if err != nil {
					return nil, fmt.Errorf("invalid scenario number %q", args[i])
				}
				config.Scenario = n
			}
		}
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scenario < RunEverything || c.Scenario > scenarioAllAlias {
		return fmt.Errorf("scenario must be between %d and %d", ScenarioProvider, scenarioAllAlias)
	}
	if c.Interactive && c.Scenario != RunEverything {
		return fmt.Errorf("--interactive and --scenario are mutually exclusive")
	}
	return nil
}

// LogConfiguration logs the current configuration
func (c *Config) LogConfiguration() {
	switch {
	case c.Interactive:
		log.Println("Running in interactive mode")
	case c.Scenario != RunEverything && c.Scenario != scenarioAllAlias:
		log.Printf("Running scenario %d", c.Scenario)
	default:
		log.Println("Running all scenarios")
	}
	if c.TopologyPath != "" {
		log.Printf("Topology file: %s", c.TopologyPath)
	}
}
