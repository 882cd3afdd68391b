// Package policyclient speaks the Postfix policy delegation protocol.
//
// A request is a list of name=value lines terminated by an empty line. The
// policy server answers the same way, with at least an action attribute:
//
//	request=smtpd_access_policy
//	protocol_state=RCPT
//	sender=foo@example.com
//	recipient=bar@example.com
//
//	action=DUNNO
//
// The client is used to smoke-test valvula listeners the way Postfix would
// query them.
package policyclient
