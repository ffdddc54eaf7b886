package main

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/kbukum/flowkit/flow"
)

// buildPipeline applies the configured stages to lines in a fixed order:
// skip, skip-while, filter, take-while, take, rate limit, then batch or
// window joined by the separator.
func buildPipeline(lines *flow.Flow[string], cfg PipelineConfig, opts ...flow.RateLimitOption) (*flow.Flow[string], error) {
	var ops []flow.Operation[string, string]

	if cfg.Skip > 0 {
		ops = append(ops, flow.Skip[string](cfg.Skip))
	}
	if p := cfg.SkipWhilePrefix; p != "" {
		ops = append(ops, flow.SkipWhile(hasPrefix(p)))
	}
	if cfg.Filter != "" {
		re, err := regexp.Compile(cfg.Filter)
		if err != nil {
			return nil, err
		}
		ops = append(ops, flow.Filter(re.MatchString))
	}
	if p := cfg.TakeWhilePrefix; p != "" {
		ops = append(ops, flow.TakeWhile(hasPrefix(p)))
	}
	if cfg.Take >= 0 {
		ops = append(ops, flow.Take[string](cfg.Take))
	}
	if cfg.RateLimit > 0 {
		ops = append(ops, flow.RateLimit[string](cfg.RateLimit, opts...))
	}

	f := lines.Pipe(ops...)
	if !cfg.Grouped() {
		return f, nil
	}

	var group flow.Stage
	if cfg.Window > 0 {
		group = flow.Step(flow.Window[string](cfg.Window))
	} else {
		group = flow.Step(flow.Batch[string](cfg.Batch))
	}
	join := flow.Step(flow.Map(func(items []string) (string, error) {
		return strings.Join(items, cfg.Separator), nil
	}))
	return flow.Compose[string, string](f, group, join)
}

func hasPrefix(prefix string) func(string) bool {
	return func(s string) bool { return strings.HasPrefix(s, prefix) }
}

// writeLines drains f into w, one item per line.
func writeLines(ctx context.Context, f *flow.Flow[string], w io.Writer) error {
	bw := bufio.NewWriter(w)
	err := flow.Drain(f, func(_ context.Context, line string) error {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	}).Run(ctx)
	if flushErr := bw.Flush(); err == nil {
		err = flushErr
	}
	return err
}
