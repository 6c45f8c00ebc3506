// Package sources defines the contract shared by the metadata source adapters
// (MusicBrainz, iTunes, Deezer, Wikipedia) and the candidate scoring they use.
//
// Adapters never return errors. Every lookup yields an Outcome whose Status
// distinguishes a match, a clean miss, and a failure (transport error,
// non-2xx status, malformed JSON), with a human-readable reason.
package sources
