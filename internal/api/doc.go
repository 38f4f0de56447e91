// Package api serves the advisor's REST surface: the published view state,
// the ranked network list, path health, and the manual scan trigger.
package api
