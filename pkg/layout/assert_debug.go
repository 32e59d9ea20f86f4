//go:build collage_debug

package layout

const debugChecks = true
