// Package services implements the business logic layer between the HTTP
// handlers and the rental processing core.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # RentalService
//
// RentalService owns the single current batch: an upload is read into a
// table, run through the batch processor, and stored together with its
// rendered report table and summary. A new upload replaces the previous
// batch; there is no batch history. Export methods render the stored
// batch to CSV or XLSX, either onto disk under the reports directory or
// streamed to an HTTP response.
//
// Progress events flow through the ProgressPublisher interface so the
// service never depends on the websocket package directly.
package services
