//go:build meshdebug

package topology

const boundsCheck = true
