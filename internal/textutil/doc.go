// Package textutil provides token-based text fingerprinting and cosine
// similarity, used to screen incoming manuscripts for near-duplicate
// titles and abstracts.
//
// Fingerprints are term-frequency vectors normalized for efficient
// comparison. Tokenization lowercases text, splits on non-alphanumeric
// characters, and filters tokens shorter than 3 characters.
package textutil
