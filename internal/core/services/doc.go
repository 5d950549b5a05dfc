// Package services contains the core application logic, wired to the
// outside world only through the driven ports. LibraryService owns the
// ingestion pipeline; AnswerService owns retrieval and generation.
package services
