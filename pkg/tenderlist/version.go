// Package tenderlist holds release information for the tenderlist module.
package tenderlist

// Version is the current release of tenderlist.
const Version = "0.3.0"
