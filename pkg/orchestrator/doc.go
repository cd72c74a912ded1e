// Package orchestrator manages a mesh of agents: it registers them under
// unique names, wires directed connections between them, and drives
// multi-step workflows across those connections.
//
// At most one connection exists per ordered (consumer, provider) pair, and
// connecting two agents marks both active. Workflows run fail-fast: the
// first failing step stops the run, and the error keeps its protocol kind so
// callers can tell an unknown tool from bad arguments.
//
// Example usage:
//
//	mesh := orchestrator.New()
//	if err := mesh.RegisterAgent(server); err != nil {
//		log.Fatalf("register: %v", err)
//	}
//	if err := mesh.RegisterAgent(client); err != nil {
//		log.Fatalf("register: %v", err)
//	}
//	if _, err := mesh.ConnectAgents("client1", "server1"); err != nil {
//		log.Fatalf("connect: %v", err)
//	}
//
//	results, err := mesh.Coordinate(ctx,
//		orchestrator.CallStep("client1", "server1", "calculator", map[string]any{
//			"operation": "add", "a": 10, "b": 5,
//		}),
//		orchestrator.ReadStep("client1", "server1", "data/users.json"),
//	)
package orchestrator
