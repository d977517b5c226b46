// Package indexer turns files on disk into searchable records: discover
// candidates, extract a bounded text prefix, summarize and embed through the
// semantic provider, and upsert into the vector store.
//
// Files are processed in sequential batches of Options.Concurrency concurrent
// workers. A failure on one file is recorded in the run's IndexStats and
// never aborts its batch; only context cancellation stops a run early.
// Re-indexing an existing path reuses the prior record's id, so external
// references by id survive content changes.
package indexer
