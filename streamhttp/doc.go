// Package streamhttp is a small HTTP/1.1 client built directly on a
// byte-stream transport, aimed at long-lived streaming responses such
// as firehose feeds (chunked transfer encoding, optionally gzip).
//
// Highlights
//   - Client: GET/POST/PUT over raw sockets, chunked and
//     content-length and EOF-terminated bodies, incremental gzip
//     decode independent of chunk boundaries, cooperative
//     cancellation via Interrupt.
//   - Transport seam: callers may inject an already-connected (and
//     already TLS-negotiated) byte stream; the client owns and closes
//     it per request.
//   - Observability: plug-in Logger and Meter interfaces.
//
// Quick start (the zero-value client requests gzip; set
// DisableCompression to opt out):
//
//	c := &streamhttp.Client{}
//	body, err := c.Get("https://stream.example.com/firehose")
//	if err != nil { log.Fatal(err) }
//	fmt.Println(len(body))
//
// Streaming consumption:
//
//	_, err := c.Get(uri, streamhttp.WithSink(streamhttp.SinkFunc(func(p []byte) error {
//	    fmt.Printf("%s", p)
//	    return nil
//	})))
//
// A concurrent goroutine may call c.Interrupt() to stop an in-flight
// stream; the blocked call returns whatever it had buffered, without
// error.
package streamhttp
