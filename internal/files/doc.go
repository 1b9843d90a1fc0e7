// Package files locates dataset files on disk.
//
// Commands accept either a dataset file or a directory. Discovery.Resolve
// turns a directory into its most recently modified CSV or workbook:
//
//	discovery := files.NewDiscovery(paths.BaseDir)
//	in, err := discovery.Resolve("data")
package files
