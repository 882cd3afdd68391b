// Package postfix edits restriction lists inside Postfix main.cf.
//
// main.cf has no grammar this package tries to honour beyond the line
// conventions Postfix itself uses: a logical line starts at column 0, lines
// starting with whitespace continue the previous logical line, and blank lines
// and lines whose first non-space character is '#' are ignored.
//
// The package works in two steps. Classify scans the file once and reports how
// a declaration is currently laid out:
//
//	smtpd_data_restrictions = reject_unknown_client          single_line_decl
//	smtpd_relay_restrictions =                               empty_decl
//	smtpd_recipient_restrictions =                           multi_line_decl
//	  permit_mynetworks,
//	  reject_unauth_destination
//	smtpd_helo_restrictions = permit_mynetworks,             multi_line_decl_2
//	  reject_invalid_helo_hostname
//
// Apply (augmentation) and Create (creation) then rewrite the text so that a
// policy token is placed first or last in the list, touching only the lines of
// that declaration. Connect picks the right one. MainCf wraps the same
// operations with locked, atomic file I/O.
package postfix
