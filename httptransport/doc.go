// Package httptransport provides the default postrpc.Transport
// implementation.
//
// Payloads are sent by making an HTTP POST request. The implementation
// integrates with Go's native HTTP package.
package httptransport
