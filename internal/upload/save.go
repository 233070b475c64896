package upload

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// PartialReason classifies why a save stopped partway. The granularity is
// user-visible: each reason maps to its own HTTP error message.
type PartialReason int

const (
	CountLimit PartialReason = iota
	SizeLimit
	IoFault
	EncodingFault
)

func (r PartialReason) String() string {
	switch r {
	case CountLimit:
		return "count limit"
	case SizeLimit:
		return "size limit"
	case IoFault:
		return "io fault"
	case EncodingFault:
		return "encoding fault"
	default:
		return "unknown"
	}
}

// Outcome is the coarse save result.
type Outcome int

const (
	// Complete: the full payload reached disk.
	Complete Outcome = iota
	// Partial: a limit or fault truncated the write; the destination may
	// hold a truncated file, which is left in place.
	Partial
	// Failed: the save could not start at all.
	Failed
)

// SaveResult is the outcome of persisting one multipart entry.
type SaveResult struct {
	Outcome Outcome
	Reason  PartialReason // set when Outcome == Partial
	Written int64
	Err     error // underlying cause for IoFault and Failed
}

// A Part is one entry of a multipart body: its payload stream plus the
// declared content type (empty when the part carries none).
type Part interface {
	io.Reader
	ContentType() string
}

// Saver streams multipart entries to destination paths. Limits of zero are
// unenforced. The destination's parent directory must already exist; Saver
// never creates directories.
type Saver struct {
	SizeLimit  int64 // max bytes per saved file
	CountLimit int   // max files accepted per request
}

// Save streams part to dst, overwriting any existing file. seen is how many
// files this request already persisted, checked against the count limit.
// Parts declaring a text/* content type must be valid UTF-8; a violation
// stops the save with an EncodingFault.
func (s *Saver) Save(part Part, dst string, seen int) SaveResult {
	if s.CountLimit > 0 && seen >= s.CountLimit {
		return SaveResult{Outcome: Partial, Reason: CountLimit}
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return SaveResult{Outcome: Failed, Err: err}
	}

	textual := strings.HasPrefix(part.ContentType(), "text/")
	res := s.copy(f, part, textual)
	if cerr := f.Close(); cerr != nil && res.Outcome == Complete {
		res = SaveResult{Outcome: Partial, Reason: IoFault, Written: res.Written, Err: cerr}
	}
	return res
}

func (s *Saver) copy(f *os.File, src io.Reader, textual bool) SaveResult {
	buf := make([]byte, 32*1024)
	var written int64
	var carry []byte // trailing partial UTF-8 sequence from the last chunk
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if textual {
				data := append(carry, chunk...)
				complete, tail := splitPartialRune(data)
				if !utf8.Valid(complete) {
					return SaveResult{Outcome: Partial, Reason: EncodingFault, Written: written}
				}
				carry = append(carry[:0:0], tail...)
			}
			if s.SizeLimit > 0 && written+int64(n) > s.SizeLimit {
				if allowed := s.SizeLimit - written; allowed > 0 {
					wn, _ := f.Write(chunk[:allowed])
					written += int64(wn)
				}
				return SaveResult{Outcome: Partial, Reason: SizeLimit, Written: written}
			}
			wn, werr := f.Write(chunk)
			written += int64(wn)
			if werr != nil {
				return SaveResult{Outcome: Partial, Reason: IoFault, Written: written, Err: werr}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return SaveResult{Outcome: Partial, Reason: IoFault, Written: written, Err: rerr}
		}
	}
	if textual && len(carry) > 0 {
		return SaveResult{Outcome: Partial, Reason: EncodingFault, Written: written}
	}
	return SaveResult{Outcome: Complete, Written: written}
}

// splitPartialRune splits b so that complete holds only whole UTF-8
// sequences and tail a trailing incomplete one (possibly empty). Invalid
// bytes stay in complete for utf8.Valid to reject.
func splitPartialRune(b []byte) (complete, tail []byte) {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		start := len(b) - i
		if !utf8.RuneStart(b[start]) {
			continue
		}
		if utf8.FullRune(b[start:]) {
			return b, nil
		}
		return b[:start], b[start:]
	}
	return b, nil
}
