// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): text extraction, embedding, generation,
// the vector index, and the metadata and content stores.
package driven
