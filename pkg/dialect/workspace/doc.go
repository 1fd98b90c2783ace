// Package workspace runs dialect queries across the documents of a chart.
//
// A project is the directory tree under the nearest Chart.yaml. Its
// candidate documents are the *.yaml and *.yml files outside .git,
// node_modules, vendor, tmp and .werf that the root .gitignore does not
// exclude; only those that look like values documents take part in
// cross-document queries.
//
// Store caches document text by path and version. Watcher invalidates it
// from filesystem events and reports debounced batches of changed paths.
package workspace
