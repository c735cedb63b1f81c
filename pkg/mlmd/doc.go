// Package mlmd is a typed, transactional client for an ML metadata store.
//
// It records the artifacts, executions, contexts and lineage events of
// machine-learning pipelines in a relational database (SQLite or MySQL),
// preserving a dynamic per-type property schema on top of a fixed
// relational schema. See the package-level example in store_test.go for a
// minimal end-to-end walkthrough.
package mlmd
