package service

import (
	"errors"
	"io"

	"github.com/tcolgate/mp3"
)

// probeMP3Duration sums frame durations across the whole stream. It
// tolerates a truncated final frame, returning what it measured up to
// that point.
func probeMP3Duration(r io.Reader) (float64, error) {
	decoder := mp3.NewDecoder(r)

	var (
		frame   mp3.Frame
		skipped int
		total   float64
		decoded bool
	)

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			if decoded {
				break
			}
			return 0, err
		}
		decoded = true
		total += frame.Duration().Seconds()
	}

	if !decoded {
		return 0, errors.New("no mp3 frames found")
	}
	return total, nil
}
