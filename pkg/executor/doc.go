// Package executor drives custom scan states through their lifecycle on
// behalf of the host, including the shared memory hooks of parallel scans.
package executor
