// Package factory maps a resolved common.Address to the transport implementing
// it: tcp for host:port addresses, unix for socket paths. Callers parse the
// address once with common.ParseAddress and never look at its kind again.
package factory
