package common

import (
	"testing"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in       string
		kind     AddrKind
		endpoint string
	}{
		{"127.0.0.1:6667", AddrKindTCP, "127.0.0.1:6667"},
		{"[::1]:6667", AddrKindTCP, "[::1]:6667"},
		{"localhost:6667", AddrKindTCP, "localhost:6667"},
		{":6667", AddrKindTCP, ":6667"},
		{"  10.0.0.2:80  ", AddrKindTCP, "10.0.0.2:80"},
		{"/tmp/rpclip.sock", AddrKindUnix, "/tmp/rpclip.sock"},
		{"rpclip.sock", AddrKindUnix, "rpclip.sock"},
		{"./run/a:1", AddrKindUnix, "./run/a:1"},
		{"host:notaport", AddrKindUnix, "host:notaport"},
		{"host:70000", AddrKindUnix, "host:70000"},
		{`C:\sockets\rpclip`, AddrKindUnix, `C:\sockets\rpclip`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			addr, err := ParseAddress(tt.in)
			if err != nil {
				t.Fatalf("ParseAddress(%q) failed: %v", tt.in, err)
			}
			if addr.Kind != tt.kind || addr.Endpoint != tt.endpoint {
				t.Errorf("ParseAddress(%q) = %v, want %s://%s", tt.in, addr, tt.kind, tt.endpoint)
			}
		})
	}
}

func TestParseAddressEmpty(t *testing.T) {
	for _, in := range []string{"", "   "} {
		if _, err := ParseAddress(in); !IsKind(err, ErrKConfig) {
			t.Errorf("ParseAddress(%q): expected config error, got %v", in, err)
		}
	}
}

func TestDefaultEndpointsAreTCP(t *testing.T) {
	for _, endpoint := range []string{DefaultServerEndpoint, FallbackServerEndpoint, DefaultClientEndpoint} {
		if addr := MustParseAddress(endpoint); addr.Kind != AddrKindTCP {
			t.Errorf("%s should be a tcp address, got %s", endpoint, addr.Kind)
		}
	}
}
