// Package chatsvc implements the chat log facade consumed by the HTTP
// transport. Per request it authenticates the bearer token, checks the role
// gate, and performs exactly one ring operation under a single exclusive
// lock. Authorization failures never touch the ring.
//
// Example:
//
//	svc := chatsvc.New(rt)
//	_ = svc.Append(ctx, token, "hello")
//	msgs, _ := svc.SnapshotAll(ctx, token, "")
//	tail, _ := svc.SnapshotFrom(ctx, token, msgs[3].Key, "")
package chatsvc
