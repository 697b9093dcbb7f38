// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the chatsync application.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width truncation with ellipsis, CJK-aware
//   - StringWidth: terminal column width of a string
//
// Type Conversion:
//   - IntToString, Int64ToString: numeric to string conversion
//   - StrToInt: lenient string to int conversion
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long titles safely for display
//	display := util.TruncateWidth(title, 50)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
