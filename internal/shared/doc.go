// Package shared is the home of helpers used by more than one EcoTrack
// package that belong to no single layer.
//
// The testutil subpackage provides a log-capturing slog handler and ESG
// dataset fixtures for package tests:
//
//	func TestClean(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteCSV(t, testutil.SampleESGCSV)
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
