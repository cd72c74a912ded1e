package openapi2agent

import (
	"fmt"
	"sort"
)

// PrintSummary prints a human-readable summary of the operations that will
// be bound as tools: the total count and a per-tag breakdown.
//
// Example usage:
//
//	doc, _ := openapi2agent.LoadSpec(ctx, "petstore.yaml")
//	ops := openapi2agent.ExtractOperations(doc)
//	openapi2agent.PrintSummary(ops)
//
// Output example:
//
//	Total tools: 12
//	Tags:
//	  pets: 8
//	  store: 3
//	  user: 1
func PrintSummary(ops []Operation) {
	tagCount := map[string]int{}
	for _, op := range ops {
		for _, tag := range op.Tags {
			tagCount[tag]++
		}
	}
	fmt.Printf("Total tools: %d\n", len(ops))
	if len(tagCount) > 0 {
		tags := make([]string, 0, len(tagCount))
		for tag := range tagCount {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		fmt.Println("Tags:")
		for _, tag := range tags {
			fmt.Printf("  %s: %d\n", tag, tagCount[tag])
		}
	}
}
