// Package unix implements the unix domain socket transport of rpClip, used when
// the server address is a filesystem path instead of host:port.
//
// The server connector removes a stale socket file left by an earlier run
// before binding, restricts the socket to its owner (0600) and unlinks it again
// when the listener is closed. A path that exists but is not a socket is an
// error and is never removed.
//
// The default server buffer size is 64 KB, smaller than for tcp since local
// sockets need less buffering.
package unix
