//go:build windows

package lineend

// Platform is the native line ending of the target platform
const Platform = CRLF
