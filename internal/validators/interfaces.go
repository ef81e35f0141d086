// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides input validation for the weight-tracker server.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//   - WeightValidator: the go-playground/validator backed implementation for
//     request DTOs, weight documents, months and locations.
//
// Usage patterns:
//  1. Inject a Validator into services or handlers.
//  2. Call Validate with context, value, and optional field names to enforce rules.
//  3. Match failures with errors.Is against the sentinels in errors.go.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
