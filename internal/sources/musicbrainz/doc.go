// Package musicbrainz is the primary metadata source. It searches recordings
// with a ladder of progressively looser Lucene queries, accepts the best hit
// only above a minimum score, then folds genres and tags from the recording,
// falling back to its release group and finally its first credited artist.
//
// MusicBrainz allows roughly one request per second per client; every call
// made through a Client waits on a shared rate limiter.
package musicbrainz
