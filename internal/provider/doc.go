// Package provider abstracts the external language-model API behind the
// SemanticProvider contract: summarize text, embed text, and rerank
// candidates against a query.
//
// The concrete adapter targets any OpenAI-compatible endpoint (chat
// completions for summarize/rerank, embeddings for embed). Authentication is
// a two-variant tagged Credential (API key or pre-issued access token),
// resolved once at construction.
//
// None of the three calls is retried internally; a failure surfaces as a
// ProviderError that the indexing orchestrator isolates per file and the
// search path propagates per query. The one exception to fail-fast is the
// reranker's output: it is untrusted free-form text, so ParseRanking degrades
// malformed output to a uniform fallback ranking tagged with FallbackUsed
// instead of failing the query.
package provider
