// Package engine contains the battle loop and the exploration session.
//
// ARCHITECTURAL RULE: domain packages hold the state and the rules; the
// systems in this package apply them, journal every change to the EventLog
// and log it. Front ends only read the journal and submit tokens.
package engine
