// Package roster loads the declarative side tables that steer the rating
// pipeline: the performer alias dictionary, the excluded-video list, and the
// per-channel rule overrides. All three are line-oriented text files with
// `#` comments, loaded once per run into immutable structures.
package roster
