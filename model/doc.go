// Package model groups the data types exchanged between the tool surface, the
// process gateway and the orchestration client.
//
// The `process` sub-package describes what travels over the wire to the
// Unmeshed engine (process requests, process data and API mapping
// invocations) while `types` describes the service/method contract used to
// expose operations as agent tools.
package model
