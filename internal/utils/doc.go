// Package utils holds small internal helpers shared by providers and the
// client: a synchronous JSON POST helper ([DoPostSync]) with its typed
// [HTTPStatusError], and string helpers used when logging payloads.
package utils
