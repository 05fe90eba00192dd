package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/gops/agent"
	"github.com/zeromicro/go-zero/core/logx"

	"lockbench/config"
	"lockbench/contention"
	"lockbench/report"
)

var configFile = flag.String("f", "", "the config file, defaults are used when empty")

func main() {
	flag.Parse()

	c, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if c.Log.ServiceName == "" {
		c.Log.ServiceName = "lockbench"
	}
	setupLog(c.Log, os.Stderr)

	if err := run(context.Background(), c, os.Stdout); err != nil {
		logx.Errorw("benchmark aborted", logx.Field("error", err.Error()))
		logx.Close()
		os.Exit(1)
	}
	logx.Close()
}

// setupLog 报告独占 stdout，console 模式下的日志改写到 w
func setupLog(c logx.LogConf, w io.Writer) {
	logx.MustSetup(c)
	logx.DisableStat()
	if c.Mode == "" || c.Mode == "console" {
		logx.SetWriter(logx.NewWriter(w))
	}
}

// run 对 MinThreads..MaxThreads 中的每个线程数依次调用一次 RunSuite
func run(ctx context.Context, c config.Config, out io.Writer) error {
	if c.Diagnostics.Enabled {
		if err := agent.Listen(agent.Options{Addr: c.Diagnostics.Addr, ShutdownCleanup: true}); err != nil {
			return fmt.Errorf("start gops agent: %w", err)
		}
		defer agent.Close()
	}

	reporters := report.Multi{newReporter(c.Format, out)}
	var metrics *report.Metrics
	if c.Metrics {
		metrics = report.NewMetrics(nil)
		reporters = append(reporters, metrics)
	}

	suite := contention.New(contention.Options{
		Iterations:       c.Iterations,
		CoarseSpinBudget: c.CoarseSpinBudget,
		LockOSThread:     c.LockOSThread,
		Reporter:         reporters,
	})
	for threads := c.MinThreads; threads <= c.MaxThreads; threads++ {
		logx.Infow("running suite", logx.Field("threads", threads))
		if _, err := suite.RunSuite(ctx, threads); err != nil {
			return err
		}
	}

	if metrics != nil {
		return metrics.Dump(out)
	}
	return nil
}

func newReporter(format string, out io.Writer) contention.Reporter {
	if format == "json" {
		return report.NewJSON(out)
	}
	return report.NewText(out)
}
