// Package consumption describes household appliances as recurring power
// requests. Requests are sampled into concrete runs: one occurrence with a
// start, an end and the power drawn by each usage segment. Times are
// expressed in simulated hours since the start of the session.
package consumption
