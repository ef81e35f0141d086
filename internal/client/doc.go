// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal calendar, the offline-first client services and the
// local cache into a single process lifecycle: pending saves are flushed and
// timers stopped before the process exits.
package client
