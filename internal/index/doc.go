// Package index persists validated article metadata in a relational store so
// downstream consumers (feeds, sitemaps, listings) can query the corpus
// without re-parsing files. Records are keyed by slug with deterministic ids,
// making every write idempotent.
package index
