// Package debate provides the domain types and record stores for the Moot
// debate service. A Debate is the aggregate root: two agents argue opposing
// sides of a proposition across a fixed number of turns, producing an
// append-only message transcript. The package defines the typed errors the
// rest of the system dispatches on and two Store implementations (in-process
// memory and Redis-backed) behind one interface.
//
// The store owns the canonical copy of every debate. Callers receive copies
// and must write changes back through Update; there is no optimistic
// concurrency token, so concurrent writers to the same debate must be
// serialized externally (the orchestrator holds a per-debate lock).
package debate
