// Package errors provides structured diagnostics for the nano CLI and dev
// server.
//
// A NanoError carries a registered code, a category, a short message and
// optionally a longer detail, a hint and the error it wraps. Codes are
// grouped by category:
//
//   - N001-N019 config: invalid or unreadable configuration
//   - N020-N039 render: server rendering failures
//   - N040-N059 hydration: markup that does not match the tree
//   - N060-N079 dev: dev server sessions and transport
//   - N080-N099 cli: command usage and input files
//
// # Usage
//
//	err := errors.New("N001").
//	    WithDetail(`dev.port must be between 1 and 65535, got 0`).
//	    WithSuggestion("set dev.port in nano.yaml or NANO_DEV_PORT")
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// Output:
//	// ERROR N001: Invalid configuration value
//	//
//	//   dev.port must be between 1 and 65535, got 0
//	//
//	//   Hint: set dev.port in nano.yaml or NANO_DEV_PORT
package errors
