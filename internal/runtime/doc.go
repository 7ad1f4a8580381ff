// Package runtime provides the execution context for ghcommit commands.
//
// It resolves the repository a run operates on and bundles the shared
// dependencies the publish pipeline needs: configuration, logger, reporter,
// the local checkout and the GitHub client.
package runtime
