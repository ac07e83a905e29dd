package streamhttp_test

import (
	"fmt"

	"dqx0.com/go/firehose/streamhttp"
)

// ExampleHeader shows basic header operations.
func ExampleHeader() {
	h := streamhttp.Header{}
	h.Set("content-type", "application/json")
	h.Set("X-FOO", "a")
	h.Set("x-foo", "b") // same key, last one wins
	fmt.Println(h.Get("Content-Type"))
	fmt.Println(h.Get("x-foo"))
	fmt.Println(len(h))
	// Output:
	// application/json
	// b
	// 2
}

// ExampleSinkFunc shows streaming consumption of a response body.
func ExampleSinkFunc() {
	c := &streamhttp.Client{}
	sink := streamhttp.SinkFunc(func(p []byte) error {
		fmt.Printf("%s", p)
		return nil
	})
	_ = c
	_ = sink // pass with streamhttp.WithSink(sink) to c.Get
}

// ExampleClient_Interrupt stops a long-lived stream from another
// goroutine.
func ExampleClient_Interrupt() {
	c := &streamhttp.Client{}
	done := make(chan struct{})
	go func() {
		// ... c.Get(uri, streamhttp.WithSink(...)) runs here ...
		close(done)
	}()
	c.Interrupt() // the blocked Get returns its partial result
	<-done
}
