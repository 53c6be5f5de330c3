// Package config provides loading and environment overlay for ras-chat
// configuration. It exposes a Default() baseline, a JSON Load, and a
// RASCHAT_* env overlay applied last.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/raschat.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
package config
