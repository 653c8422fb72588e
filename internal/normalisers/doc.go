// Package normalisers provides implementations of the Normaliser interface
// for the document formats that arrive in a matter's intake directory.
// Each normaliser knows how to extract text content from a specific
// MIME type.
//
// Normalisers are registered with the Registry at startup; the registry
// picks the highest-priority normaliser for a raw document's MIME type.
package normalisers
