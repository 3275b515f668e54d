package serializer

import (
	"github.com/ValentinKolb/rpClip/rpc/common"
	"strings"
	"testing"
)

// benchmarkPayloads are the clipboard texts used by the benchmarks, from an
// empty get request up to a text of a few pages
var benchmarkPayloads = []struct {
	name string
	msg  common.Message
}{
	{"GetRequest", *common.NewGetClipRequest()},
	{"Word", *common.NewSetClipRequest("v")},
	{"Paragraph", *common.NewSetClipRequest(strings.Repeat("some clipboard text\n", 20))},
	{"Pages", *common.NewGetClipResponse(strings.Repeat("x", 64*1024), nil)},
	{"ClipboardError", *common.NewGetClipResponse("", common.NewRPCError(common.ErrKClipboard, "clipboard unavailable: no display"))},
}

// BenchmarkRoundTrip encodes and decodes each payload with every serializer.
// The serialized size is reported as bytes/msg.
func BenchmarkRoundTrip(b *testing.B) {
	for name, factory := range testSerializers {
		for _, p := range benchmarkPayloads {
			b.Run(name+"/"+p.name, func(b *testing.B) {
				s := factory()
				data, err := s.Serialize(p.msg)
				if err != nil {
					b.Fatalf("Serialize failed: %v", err)
				}
				b.ReportMetric(float64(len(data)), "bytes/msg")
				b.SetBytes(int64(len(p.msg.Text)))
				b.ReportAllocs()
				b.ResetTimer()

				var out common.Message
				for i := 0; i < b.N; i++ {
					if data, err = s.Serialize(p.msg); err != nil {
						b.Fatal(err)
					}
					if err = s.Deserialize(data, &out); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
