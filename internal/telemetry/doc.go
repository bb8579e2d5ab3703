/*
Package telemetry implements the adaptive performance-telemetry and
cache-advisory engine for remote mounts.

# Overview

The engine observes every read/write/list/stat/rename operation and every
network-condition sample against one or more mounted remote folders, and
derives from that history a live usage profile per mount, a network
quality classification with trend, and a ranked set of cache, prefetch
and compression recommendations. It runs inline with file operations, so
every ingestion call is a synchronous in-memory append that completes
before returning, and every buffer is strictly bounded.

Architecture

	            ingestion                      queries
	┌─────────────────────────────┐  ┌─────────────────────────┐
	│ RecordOperation             │  │ UsagePattern            │
	│ BeginOperation/EndOperation │  │ NetworkStatistics       │
	│ RecordNetworkSample         │  │ AdaptiveCacheSettings   │
	└──────────────┬──────────────┘  │ Recommendations         │
	               │                 └────────────▲────────────┘
	        ┌──────▼──────┐                       │
	        │   Monitor   │───────────────────────┘
	        └──────┬──────┘
	       ┌───────┴────────┬────────────────┐
	  ┌────▼────┐      ┌────▼─────┐    ┌─────▼──────┐
	  │Recorder │◄─────│  Timer   │    │  Network   │
	  │ (≤1000) │      │begin/end │    │  Monitor   │
	  └────┬────┘      └──────────┘    │   (≤100)   │
	       │                           └─────┬──────┘
	  ┌────▼─────┐                           │
	  │  Usage   │◄──────┐      ┌────────────┘
	  │ Analyzer │   ┌───┴──────▼───┐
	  └──────────┘   │ CacheAdvisor │
	                 └──────────────┘

# Usage

	monitor := telemetry.New(&telemetry.Config{Enabled: true}, logger)
	defer monitor.Dispose()

	// Inline instrumentation of a completed operation:
	monitor.RecordOperation(types.OperationRecord{
		Kind:     types.OpRead,
		Duration: elapsed,
		Success:  true,
		LocalURI: "/mnt/project/main.go",
		MountID:  "mount-1",
		Size:     int64(n),
	})

	// Two-phase instrumentation when completion is observed elsewhere:
	handle := monitor.BeginOperation(types.OpWrite, local, remote, mountID)
	// ... asynchronous work outside this package ...
	monitor.EndOperation(handle, err == nil, written)

	// On demand, typically from the presentation layer:
	if pattern, ok := monitor.UsagePattern(mountID); ok {
		render(pattern)
	}
	for _, rec := range monitor.Recommendations(mountID) {
		offer(rec)
	}

# Failure semantics

Nothing in this package throws or returns errors on malformed input.
Unknown mounts yield absent results, unknown timer handles are silent
no-ops, and a disabled monitor turns every ingestion call into a no-op
while queries keep serving whatever history remains. Passive observation
must never fail the operation it is observing.

# Concurrency

All state is guarded per component by a mutex, so a concurrent host can
record from multiple workers without violating the FIFO-eviction
invariant. Ingestion never blocks on I/O.
*/
package telemetry
