// Package flagx resolves runtime configuration and feature-flag values for
// an application.
//
// # Overview
//
// flagx layers a remotely-fetched source of truth under locally-persisted
// overrides and a static defaults table, resolves them into immutable
// snapshots, and distributes those snapshots reactively to subscribers.
// Per key, an override always wins over the remote value, which wins over
// the default. When the remote backend is unreachable the engine keeps
// serving the last activated remote set, overrides and defaults — the
// application always has a usable configuration.
//
// # Features
//
//   - Override > remote > default precedence with per-key provenance
//   - Heuristic decoding of untyped remote values into a typed union
//   - Immutable snapshots, pointer-comparable, with per-key change fan-out
//   - Single-flight remote refresh shared by concurrent callers
//   - Typed getters that degrade to a caller fallback, never panic
//   - HTTP, Kubernetes ConfigMap and in-memory remote providers
//   - GORM-backed (sqlite/mysql/postgres) and in-memory override stores
//   - Struct binding via flag/default tags with validator support
//
// # Usage
//
//	eng, err := flagx.New(flagx.Options{
//		Logger:   logx.New(),
//		Remote:   flagx.NewHTTPRemoteProvider(url, flagx.HTTPRemoteOptions{}),
//		Store:    store,
//		Defaults: map[string]value.Value{"dark_mode": value.Bool(false)},
//	})
//	if err != nil { panic(err) }
//	if err := eng.Initialize(ctx); err != nil { panic(err) }
//
//	dark := eng.GetBool("dark_mode", false)
//	stop := eng.SubscribeKey("dark_mode", func(r value.Resolved) { ... })
//	defer stop()
//
// # Concurrency
//
// One engine instance is shared per process. The engine is the single
// writer of the published snapshot; a snapshot published after a mutation
// reflects that mutation before the call returns.
//
// # Stability
//
// Stable since v0.1.0. Backward-compatible API changes may occur with minor versions.
package flagx
