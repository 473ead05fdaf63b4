// Package errors provides structured, actionable errors for the portfolio
// server and its CLI.
//
// Every error carries a registered code that maps to a category, a short
// message and a longer explanation:
//
//	R001  router: duplicate route path
//	C002  config: invalid listen address
//	S001  content: document not found
//
// Errors wrap their cause, so errors.Is and errors.As keep working on the
// sentinel values exported by the router and content packages.
//
// # Usage
//
//	err := errors.New("R001").
//	    WithDetailf("path %q is registered twice", "/about").
//	    Wrap(router.ErrDuplicatePath)
//
//	fmt.Fprintln(os.Stderr, err.Format())
//	// ERROR R001: Duplicate route path
//	//
//	//   path "/about" is registered twice
package errors
