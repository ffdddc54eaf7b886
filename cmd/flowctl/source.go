package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/kbukum/flowkit/flow"
	"github.com/kbukum/flowkit/redis"
)

const (
	redisScheme = "redis:"
	maxLineSize = 1 << 20
)

// redisKey extracts KEY from "redis:KEY".
func redisKey(s string) (string, bool) {
	key, ok := strings.CutPrefix(s, redisScheme)
	return key, ok && key != ""
}

func isRedis(s string) bool {
	_, ok := redisKey(s)
	return ok
}

// lineSource is the input side of a run.
type lineSource struct {
	lines   *flow.Flow[string]
	scanErr <-chan error
	closer  io.Closer
}

// Err reports a read error from the scanner. It only reports once the input
// was read to the end; a scanner left blocked by an early-terminating stage
// reports nothing.
func (s *lineSource) Err() error {
	select {
	case err := <-s.scanErr:
		return err
	default:
		return nil
	}
}

// Close releases the underlying input.
func (s *lineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// openSource resolves input to a flow of lines: "-" or "" reads stdin,
// "redis:KEY" reads a Redis list through rc, anything else is a file path.
func openSource(ctx context.Context, input string, stdin io.Reader, rc *redis.Client) (*lineSource, error) {
	if key, ok := redisKey(input); ok {
		return &lineSource{lines: rc.List(key)}, nil
	}

	var r io.Reader = stdin
	var closer io.Closer
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		r, closer = f, f
	}
	lines, errc := readLines(ctx, r)
	return &lineSource{lines: lines, scanErr: errc, closer: closer}, nil
}

// readLines exposes the lines of r as a single-pass async flow. A scanner
// goroutine feeds the flow until r is exhausted or ctx is done. The returned
// channel receives the scanner's result before the flow is exhausted.
func readLines(ctx context.Context, r io.Reader) (*flow.Flow[string], <-chan error) {
	ch := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- sc.Err()
	}()

	return flow.FromChannel(ch), errc
}
