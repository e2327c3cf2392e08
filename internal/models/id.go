package models

import (
	"sync/atomic"
	"time"
)

var idSeq atomic.Int64

// NewID mints a logical id: the Unix-millisecond timestamp shifted left with
// a process-local sequence folded into the low 10 bits. Two ids minted in the
// same millisecond still differ, so rapid creation never collides within a
// running instance.
func NewID() int64 {
	return time.Now().UnixMilli()<<10 | (idSeq.Add(1) & 0x3ff)
}
