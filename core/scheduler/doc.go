// Package scheduler turns a set of consumption requests into the global,
// time-ordered stream of runs. The stream is pulled one run at a time and is
// infinite as soon as one request carries a schedule; consumers bound it,
// typically with Within.
package scheduler
