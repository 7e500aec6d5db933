// Package unmeshed exposes the Unmeshed orchestration engine to agents as a
// small set of tools: start a process asynchronously or synchronously,
// invoke an API mapping and read process status.
//
// The root Service composes the pieces found in sub-packages:
//
//   - client/rest       – HTTP client for the engine REST API
//   - service/gateway   – request validation, namespace defaulting and error shaping
//   - service/action    – tool services with typed, described inputs
//   - service/executor  – converts agent argument maps and runs tool methods
//   - policy            – allow/deny rules for tool calls
//
// Typical usage:
//
//	srv, err := unmeshed.New(ctx) // reads UNMESHED_* environment variables
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer srv.Close()
//	out, err := srv.Execute(ctx, &executor.Call{
//		Service: "unmeshed",
//		Method:  "startAsync",
//		Args:    map[string]interface{}{"name": "onboard-user"},
//	})
package unmeshed
