// Package runtime wires the chat ring, token verifier, audit store, and
// config into a single-node ras-chat instance. It exposes Open/Close and a
// basic health check; higher-level services receive the shared resources by
// reference.
//
// Example:
//
//	cfg := config.Default()
//	cfg.Auth.Secret = "..."
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
package runtime
