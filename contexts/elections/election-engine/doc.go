// Package electionengine implements the election engine inside the elections
// context.
//
// The module owns the eligibility/vote-recording state machine (window checks,
// allow-list membership, one vote per account, atomic vote+entry persistence,
// account disassociation) and the statistics reads derived live from recorded
// votes. It keeps business rules in application/domain layers and isolates
// infrastructure concerns behind ports and adapters.
package electionengine
