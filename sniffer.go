package indicator

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Sniffer pumps raw chunks off a port. Port is usually a serial.Port; closing
// it is how a blocked read gets released on shutdown.
type Sniffer struct {
	Port      io.Reader
	OnReceive func([]byte)
}

func (s *Sniffer) Consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		bs := make([]byte, 64)

		n, err := s.Port.Read(bs)
		if n > 0 {
			s.OnReceive(bs[:n])
		}

		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("reading from serial port: %w", err)
		}
	}
}
