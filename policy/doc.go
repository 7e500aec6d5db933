// Package policy provides optional approval rules applied by the executor
// before a tool method runs, for example to block synchronous process starts
// or to ask a human before an API mapping is invoked.
package policy
