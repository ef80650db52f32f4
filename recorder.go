package indicator

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Chunk is raw serial input as it came off the port.
type Chunk struct {
	Data      []byte
	Timestamp time.Time
}

// Recorder appends chunks to Dest as a gob stream that ReadIn can replay.
type Recorder struct {
	Dest io.Writer
	Now  func() time.Time

	enc  *gob.Encoder
	once sync.Once
}

func (r *Recorder) Receive(c Chunk) error {
	r.init()
	return r.enc.Encode(c)
}

// Record stamps bs with the current time and stores a copy of it.
func (r *Recorder) Record(bs []byte) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	return r.Receive(Chunk{
		Data:      append([]byte(nil), bs...),
		Timestamp: now(),
	})
}

func (r *Recorder) init() {
	r.once.Do(func() {
		r.enc = gob.NewEncoder(r.Dest)
	})
}

// ReadIn decodes a recording onto out and closes it at the end of the stream.
func ReadIn(ctx context.Context, out chan<- Chunk, r io.Reader) error {
	defer close(out)

	dec := gob.NewDecoder(r)

	for {
		var c Chunk
		if err := dec.Decode(&c); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("while decoding: %w", err)
		}

		select {
		case out <- c:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
