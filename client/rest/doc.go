// Package rest implements the orchestration client over the Unmeshed engine
// HTTP API: process start (sync and async), process context lookup and API
// mapping invocation. Every request is authenticated with a bearer token
// derived from the client ID and a SHA-256 digest of the auth token.
package rest
