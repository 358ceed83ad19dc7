// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the httpop command.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	configPath  string
	debug       bool
	noColor     bool
	showBody    bool
	headers     []string
	timeout     string
	concurrency int
	retries     int
	hedge       string
}

// NewRootCommand returns the httpop root command.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "httpop",
		Short: "Run cancellable HTTP operations",
		Long: `httpop runs one HTTP operation per URL through a bounded, rate limited
queue, and reports each operation's terminal state and status code.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			_ = godotenv.Load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored log output")
	flags.BoolVar(&opts.showBody, "body", false, "print response bodies to stdout")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "request header as 'Name: value' (repeatable)")
	flags.StringVar(&opts.timeout, "timeout", "", "per-request timeout, overrides config")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "maximum concurrent requests, overrides config")
	flags.IntVar(&opts.retries, "retries", -1, "retries after the first try, overrides config")
	flags.StringVar(&opts.hedge, "hedge", "", "delay before starting a hedged request, overrides config")

	root.AddCommand(
		newMethodCommand(opts, "get", "GET"),
		newMethodCommand(opts, "head", "HEAD"),
		newPostCommand(opts),
	)

	return root
}

func newMethodCommand(opts *options, use, method string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " URL...",
		Short: "Send a " + method + " request to each URL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), request{method: method, urls: args})
		},
	}
}

func newPostCommand(opts *options) *cobra.Command {
	var data, contentType string
	cmd := &cobra.Command{
		Use:   "post URL...",
		Short: "Send a POST request to each URL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			r := request{method: "POST", urls: args, contentType: contentType}
			if data != "" {
				r.body = []byte(data)
			}
			return run(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), r)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body")
	cmd.Flags().StringVar(&contentType, "content-type", "application/json", "request content type")
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return 0
}
