package trace

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	xdr "github.com/rasky/go-xdr/xdr2"
)

// Wire format: one XDR-encoded header followed by Count XDR-encoded
// Records. XDR keeps the dump portable between architectures and trivially
// seekable record-by-record.

const (
	// traceMagic marks a dittotree trace stream ("DTTR").
	traceMagic uint32 = 0x44545452

	// traceVersion is bumped on any incompatible Record change.
	traceVersion uint32 = 1
)

type header struct {
	Magic   uint32
	Version uint32
	Session string
	Count   uint32
}

// Write streams the records to w under a header carrying the session ID.
func Write(w io.Writer, session uuid.UUID, records []Record) error {
	hdr := header{
		Magic:   traceMagic,
		Version: traceVersion,
		Session: session.String(),
		Count:   uint32(len(records)),
	}
	if _, err := xdr.Marshal(w, &hdr); err != nil {
		return fmt.Errorf("encode trace header: %w", err)
	}

	for i := range records {
		if _, err := xdr.Marshal(w, &records[i]); err != nil {
			return fmt.Errorf("encode trace record %d: %w", records[i].Seq, err)
		}
	}
	return nil
}

// Read decodes a stream produced by Write, returning the session ID and the
// records in stored order.
func Read(r io.Reader) (uuid.UUID, []Record, error) {
	var hdr header
	if _, err := xdr.Unmarshal(r, &hdr); err != nil {
		return uuid.Nil, nil, fmt.Errorf("decode trace header: %w", err)
	}
	if hdr.Magic != traceMagic {
		return uuid.Nil, nil, fmt.Errorf("not a trace stream: magic %#x", hdr.Magic)
	}
	if hdr.Version != traceVersion {
		return uuid.Nil, nil, fmt.Errorf("unsupported trace version %d", hdr.Version)
	}

	session, err := uuid.Parse(hdr.Session)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid trace session id: %w", err)
	}

	records := make([]Record, hdr.Count)
	for i := range records {
		if _, err := xdr.Unmarshal(r, &records[i]); err != nil {
			return uuid.Nil, nil, fmt.Errorf("decode trace record %d: %w", i+1, err)
		}
	}
	return session, records, nil
}
