/*
Package types defines the shared data model for mount telemetry.

The types split into two groups. Ingested records (OperationRecord,
NetworkSample) are created when the mount subsystem reports an event and
live only inside the per-mount history buffers until evicted. Derived
views (UsagePattern, NetworkStatistics, CacheSettings, Recommendation)
are pure functions of the buffered history and exist only as query
results; callers may retain or discard them freely.

Operation kinds mirror the file operations a remote mount performs:

	read, write, delete, create, rename, list, stat

Network quality is a discrete bucket over continuous latency, bandwidth
and packet-loss measurements:

	excellent > good > fair > poor, with offline as a special case

Recommendations carry a category (what to change), a priority (how
urgently), human-readable description/impact/implementation text, the
recommended value, and the current value where one exists so a caller
can render a before/after comparison.
*/
package types
