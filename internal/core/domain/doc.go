// Package domain contains the core business entities for DocInferX.
// It has no dependencies on other internal packages and defines the
// types shared between ports, services, and adapters.
package domain
