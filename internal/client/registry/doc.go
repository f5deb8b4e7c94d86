// Package registry holds the observable, in-memory set of upload attempts.
//
// # Overview
//
// A Registry maps an upload id to an Item carrying the file name, size,
// percentage progress, status, and (for failures) an error message. It does
// no network or file I/O: the uploader reports transitions into it, and
// observers (progress panels, CLIs) read it or subscribe to its events.
//
// # State machine
//
//	pending   --ReportProgress-->  uploading
//	pending|uploading --ReportStatus(completed)--> completed  (progress forced to 100)
//	pending|uploading --ReportStatus(failed, msg)--> failed   (progress frozen)
//
// Completed and failed are terminal: later reports for that id are ignored.
// Reports for ids that are not present (never registered, or removed by an
// observer mid-flight) are silently dropped, so a removed item is never
// resurrected by its still-running upload.
//
// # Concurrency
//
// All methods are safe for concurrent use. Each upload writes only its own
// id. Listeners registered with Subscribe are called synchronously, after
// the mutation is applied and before the mutating call returns; they run
// outside the registry lock and may read the registry back. Delivery is
// serialized: events arrive in the order their mutations were applied,
// even across goroutines. A listener must not mutate the registry.
package registry
