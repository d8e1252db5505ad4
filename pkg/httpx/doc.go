// Package httpx defines the uniform request/response contract shared by
// every handler: a typed HTTP error, a success/failure JSON envelope and
// a wrapper that converts returned errors into that envelope.
//
// Handlers never write error responses directly. They return an error,
// and Wrap is the only place where errors become HTTP-shaped output.
// Unknown errors are logged and collapsed into a generic 500 so that
// internals never leak to clients.
package httpx
