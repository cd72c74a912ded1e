package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ubermorgenland/mcp-mesh/pkg/capability"
	"github.com/ubermorgenland/mcp-mesh/pkg/openapi2agent"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

func main() {
	specsDir := "./specs"
	if len(os.Args) > 1 {
		specsDir = os.Args[1]
	}

	// Check if specs directory exists
	if _, err := os.Stat(specsDir); os.IsNotExist(err) {
		log.Fatalf("Specs directory does not exist: %s", specsDir)
	}

	ctx := context.Background()
	specs, err := openapi2agent.LoadDir(ctx, specsDir)
	if err != nil {
		log.Fatalf("Failed to read specs directory: %v", err)
	}

	imported := 0
	totalTools := 0
	for _, spec := range specs {
		// Bind into a scratch registry to prove the toolset is importable.
		reg := capability.New(capability.WithLogger(util.NopLogger{}))
		bound, err := openapi2agent.BindOperations(reg, spec.Doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to import %s: %v\n", spec.Path, err)
			continue
		}

		fmt.Printf("✓ Imported %s as agent '%s' with %d tools\n", spec.Path, spec.Name, bound)
		openapi2agent.PrintSummary(openapi2agent.ExtractOperations(spec.Doc))
		imported++
		totalTools += bound
	}

	fmt.Printf("\nImport completed: %d agents with %d tools\n", imported, totalTools)

	if imported > 0 {
		fmt.Println("\nTo inspect the demo mesh, run:")
		fmt.Println("  topology show")
	}
}
