package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	ob2gfm "github.com/alnah/go-ob2gfm"
)

// runSampleCmd converts the built-in sample note.
func runSampleCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseSampleFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: sample takes no arguments, got %q", ErrUsage, positional[0])
	}

	cfg, timeout, err := resolveSettings(flags, loadEnvConfig())
	if err != nil {
		return err
	}

	conv, err := newConverter(cfg, timeout, env.newLogger(flags.common.verbose), env)
	if err != nil {
		return err
	}

	return convertStream(ctx, conv, strings.NewReader(ob2gfm.Sample), "sample", flags.output,
		paramsFromConfig(cfg), flags.common.quiet, env)
}
