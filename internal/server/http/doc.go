// Package httpserver provides the JSON gateway for ras-chat: ping/health,
// message append, and the two snapshot reads, each taking the bearer token
// in the request body.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	s := httpserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
