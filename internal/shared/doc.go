// Package shared holds helpers used across drillcli packages.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and small collar, survey and interval fixtures:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    req := testutil.SampleRequest()
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
//
// It should only contain code with no business logic of its own.
package shared
