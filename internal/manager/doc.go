// Package manager coordinates the chat pipeline. It is structured into small
// files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and the collaborator interfaces.
//   - errors.go: typed stage failures and helpers (IsUpstream, IsUnsupportedBackend).
//   - chat.go: classify -> extract -> respond for POST /chat.
//   - predict.go: direct prediction pass-throughs for /predict/*.
//   - sanity.go: startup configuration checks backing readiness.
//   - events.go, eventpub_memory.go: stage events for observers and tests.
//   - metrics.go: Prometheus counters and histograms per stage.
//
// The conversation transcript is owned by the dialogue package and handed to
// the Manager at construction; the Manager holds no package-level state.
package manager
