// Package lineend converts text between newline conventions. It is used at the
// boundary where clipboard text leaves the wire and enters a local context:
// the server normalizes text before writing it to its clipboard, the client
// normalizes text before printing it.
//
// Lines are split on "\r\n", "\n" and a lone "\r", so text produced on any
// platform is understood everywhere. Only the separators change; the line
// contents are kept byte for byte.
//
// The platform ending is "\r\n" on windows and "\n" everywhere else, macOS
// included. Classic Mac OS used a lone "\r"; current macOS tools expect "\n",
// so darwin is treated like every other unix.
//
// Usage:
//
//	text := lineend.ToPlatform("hello\r\nworld") // "hello\nworld" on linux
//	lines := lineend.Lines("a\rb\nc")           // ["a", "b", "c"]
package lineend
