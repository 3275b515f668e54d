package factory

import (
	"github.com/ValentinKolb/rpClip/rpc/common"
	"testing"
)

func TestTransportForAddressKind(t *testing.T) {
	for _, addr := range []string{"127.0.0.1:6667", "[::1]:0", "/tmp/rpclip.sock"} {
		t.Run(addr, func(t *testing.T) {
			a := common.MustParseAddress(addr)
			if st, err := NewServerTransport(a); err != nil || st == nil {
				t.Errorf("NewServerTransport(%s) = %v, %v", a, st, err)
			}
			if ct, err := NewClientTransport(a); err != nil || ct == nil {
				t.Errorf("NewClientTransport(%s) = %v, %v", a, ct, err)
			}
		})
	}
}

func TestUnknownAddressKind(t *testing.T) {
	if _, err := NewServerTransport(common.Address{}); !common.IsKind(err, common.ErrKConfig) {
		t.Errorf("Expected config error, got %v", err)
	}
	if _, err := NewClientTransport(common.Address{}); !common.IsKind(err, common.ErrKConfig) {
		t.Errorf("Expected config error, got %v", err)
	}
}
