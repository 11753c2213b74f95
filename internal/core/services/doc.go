// Package services implements the driving port interfaces.
// Services contain the core business logic: index building,
// vector retrieval with document aggregation, and query orchestration.
// They depend on driven ports (adapters) and the in-memory index only.
package services
