// Package storage keeps generated artifacts until they are downloaded.
//
// Both stores implement core.ArtifactStore: an artifact is stored under a
// random UUID, handed out once by Take and dropped after a TTL if nobody
// claims it. DiskStore keeps the bytes in files under a directory and is what
// the web server uses; MemoryStore keeps them in memory for the CLI and tests.
package storage
