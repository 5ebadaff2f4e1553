// Package docsync keeps a remote search index synchronized with a
// help-center documentation corpus. Each run it crawls the source,
// normalizes articles to markdown, decides which documents are new,
// changed, or deleted relative to the last persisted sync state, and
// reconciles those differences against the indexed store with
// at-most-once-per-change upload semantics.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., fs/,
// http/, gemini/, sqlite/).
package docsync
