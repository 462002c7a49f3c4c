// Package manifest records which artifacts make up a committed knowledge base build.
//
// A commit writes MANIFEST-<build>.json and then replaces the CURRENT pointer
// with that name. Readers resolve CURRENT first, so a build becomes visible
// only once its manifest is fully written, and a crash before the pointer
// swap leaves the previous build live.
package manifest
