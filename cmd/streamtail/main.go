// streamtail connects to a streaming HTTP endpoint and writes each
// decoded chunk to stdout until the stream ends or the process is
// interrupted.
package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"dqx0.com/go/firehose/internal/obs"
	"dqx0.com/go/firehose/streamhttp"
)

func main() {
	var (
		uri      = pflag.String("url", "", "streaming endpoint to tail")
		noGzip   = pflag.Bool("no-gzip", false, "do not request gzip compression")
		insecure = pflag.Bool("insecure", false, "skip TLS certificate verification")
		timeout  = pflag.Duration("timeout", 10*time.Second, "dial timeout")
		verbose  = pflag.Bool("verbose", false, "log client internals to stderr")
	)
	pflag.Parse()
	if *uri == "" {
		fmt.Fprintln(os.Stderr, "usage: streamtail --url <uri>")
		os.Exit(2)
	}

	// Warnings and errors always reach stderr; --verbose swaps in a
	// development zap logger that also shows the debug flow.
	var logger obs.Logger = obs.StdLogger{
		L:   log.New(os.Stderr, "streamtail ", log.LstdFlags),
		Min: obs.Warn,
	}
	if *verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer zl.Sync()
		logger = obs.NewZapLogger(zl)
	}

	c := &streamhttp.Client{
		DisableCompression: *noGzip,
		DialTimeout:        *timeout,
		Logger:             logger,
	}
	if *insecure {
		c.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		c.Interrupt()
	}()

	_, err := c.Get(*uri, streamhttp.WithSink(streamhttp.SinkFunc(func(p []byte) error {
		_, werr := os.Stdout.Write(p)
		return werr
	})))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
