package upload

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testPart struct {
	io.Reader
	ct string
}

func (p testPart) ContentType() string { return p.ct }

// byteAtATime forces multi-byte runes to straddle read boundaries.
type byteAtATime struct{ r io.Reader }

func (b byteAtATime) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return b.r.Read(p)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSaveComplete(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.bin")
	payload := []byte("hello upload")

	res := (&Saver{}).Save(testPart{Reader: bytes.NewReader(payload)}, dst, 0)
	if res.Outcome != Complete {
		t.Fatalf("outcome = %v, want Complete (err=%v)", res.Outcome, res.Err)
	}
	if res.Written != int64(len(payload)) {
		t.Errorf("written = %d, want %d", res.Written, len(payload))
	}
	if got := mustRead(t, dst); !bytes.Equal(got, payload) {
		t.Errorf("file content = %q, want %q", got, payload)
	}
}

func TestSaveOverwrites(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(dst, []byte("old content, longer than new"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := (&Saver{}).Save(testPart{Reader: strings.NewReader("new")}, dst, 0)
	if res.Outcome != Complete {
		t.Fatalf("outcome = %v, want Complete", res.Outcome)
	}
	if got := mustRead(t, dst); string(got) != "new" {
		t.Errorf("file content = %q, want %q", got, "new")
	}
}

func TestSaveSizeLimit(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "big.bin")

	res := (&Saver{SizeLimit: 4}).Save(testPart{Reader: strings.NewReader("0123456789")}, dst, 0)
	if res.Outcome != Partial || res.Reason != SizeLimit {
		t.Fatalf("got (%v, %v), want (Partial, SizeLimit)", res.Outcome, res.Reason)
	}
	// The truncated prefix stays on disk; it is not rolled back.
	if got := mustRead(t, dst); string(got) != "0123" {
		t.Errorf("truncated file = %q, want %q", got, "0123")
	}
}

func TestSaveCountLimit(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "n.bin")

	res := (&Saver{CountLimit: 1}).Save(testPart{Reader: strings.NewReader("x")}, dst, 1)
	if res.Outcome != Partial || res.Reason != CountLimit {
		t.Fatalf("got (%v, %v), want (Partial, CountLimit)", res.Outcome, res.Reason)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("count-limited save must not create the destination")
	}
}

func TestSaveEncodingFault(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "t.txt")

	res := (&Saver{}).Save(testPart{
		Reader: bytes.NewReader([]byte{0xff, 0xfe, 0xfd}),
		ct:     "text/plain",
	}, dst, 0)
	if res.Outcome != Partial || res.Reason != EncodingFault {
		t.Fatalf("got (%v, %v), want (Partial, EncodingFault)", res.Outcome, res.Reason)
	}
}

func TestSaveBinaryPartSkipsEncodingCheck(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "b.bin")
	payload := []byte{0xff, 0xfe, 0xfd}

	res := (&Saver{}).Save(testPart{Reader: bytes.NewReader(payload)}, dst, 0)
	if res.Outcome != Complete {
		t.Fatalf("outcome = %v, want Complete for binary part", res.Outcome)
	}
	if got := mustRead(t, dst); !bytes.Equal(got, payload) {
		t.Errorf("file content = %v, want %v", got, payload)
	}
}

func TestSaveRuneSplitAcrossReads(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "u.txt")
	payload := "héllo wörld" // multi-byte runes arrive one byte per read

	res := (&Saver{}).Save(testPart{
		Reader: byteAtATime{strings.NewReader(payload)},
		ct:     "text/plain; charset=utf-8",
	}, dst, 0)
	if res.Outcome != Complete {
		t.Fatalf("outcome = %v, want Complete (reason=%v)", res.Outcome, res.Reason)
	}
	if got := mustRead(t, dst); string(got) != payload {
		t.Errorf("file content = %q, want %q", got, payload)
	}
}

func TestSaveTruncatedRuneAtEOF(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "u.txt")

	res := (&Saver{}).Save(testPart{
		Reader: bytes.NewReader([]byte{'a', 0xc3}), // 0xc3 starts a 2-byte rune
		ct:     "text/plain",
	}, dst, 0)
	if res.Outcome != Partial || res.Reason != EncodingFault {
		t.Fatalf("got (%v, %v), want (Partial, EncodingFault)", res.Outcome, res.Reason)
	}
}

func TestSaveFailsWithoutParentDirectory(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "missing", "out.txt")

	res := (&Saver{}).Save(testPart{Reader: strings.NewReader("x")}, dst, 0)
	if res.Outcome != Failed || res.Err == nil {
		t.Fatalf("got (%v, %v), want Failed with an error", res.Outcome, res.Err)
	}
}
