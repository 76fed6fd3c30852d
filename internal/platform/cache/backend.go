package cache

import (
	"context"
	"encoding/binary"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

// ErrQuotaExceeded is returned by a Backend (or by the Store's own byte
// budget) when a write does not fit.
var ErrQuotaExceeded = crerr.New("cache storage quota exceeded")

var errCorruptRecord = crerr.New("corrupt cache record")

// Backend is raw key/value storage. Implementations must be safe for
// concurrent use and must report quota exhaustion as ErrQuotaExceeded.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Scan calls fn for every key with the given prefix until fn returns an error.
	Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// Record is a payload plus the time it was written. TTL is not stored;
// freshness is decided at read time against the caller's policy.
type Record struct {
	Payload  []byte
	StoredAt time.Time
}

const recordHeaderLen = 8

func encodeRecord(rec Record) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.B = binary.BigEndian.AppendUint64(buf.B, uint64(rec.StoredAt.UnixNano()))
	_, _ = buf.Write(rec.Payload)

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out
}

func decodeRecord(raw []byte) (Record, error) {
	if len(raw) < recordHeaderLen {
		return Record{}, errCorruptRecord
	}
	nanos := int64(binary.BigEndian.Uint64(raw[:recordHeaderLen]))
	payload := make([]byte, len(raw)-recordHeaderLen)
	copy(payload, raw[recordHeaderLen:])
	return Record{
		Payload:  payload,
		StoredAt: time.Unix(0, nanos),
	}, nil
}
