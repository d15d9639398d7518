// Package sysinfo - Formatting utilities
package sysinfo

import "fmt"

const gib = 1024 * 1024 * 1024

// FormatGB renders a byte count in binary gigabytes with two decimals.
//
// Parameters:
//   - bytes: The number of bytes to format
//
// Returns:
//   - A string such as "15.54 GB"
//
// Example: FormatGB(8589934592) returns "8.00 GB"
func FormatGB(bytes uint64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/gib)
}
