// Package talknet speaks to the external active-speaker scoring model over
// a persistent subprocess. The runner exposes the model's four pure
// operations (audio frontend, video frontend, cross attention, score head)
// as line-delimited JSON requests on stdin and responses on stdout.
//
// Embeddings are opaque payloads produced by the runner and passed back
// verbatim; the pipeline never interprets them. Calls are serialized on one
// subprocess because the runner owns a single accelerator context.
package talknet
