package postfix

// Section is a Postfix restriction list a valvula listener can be connected to.
type Section struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// sections are listed in the order Postfix evaluates them.
var sections = []Section{
	{"smtpd_client_restrictions", "Optional restrictions that the Postfix SMTP server applies in the context of a client connection request."},
	{"smtpd_helo_restrictions", "Optional restrictions that the Postfix SMTP server applies in the context of a client HELO command."},
	{"smtpd_sender_restrictions", "Optional restrictions that the Postfix SMTP server applies in the context of a client MAIL FROM command."},
	{"smtpd_relay_restrictions", "Access restrictions for mail relay control that the Postfix SMTP server applies in the context of the RCPT TO command before smtpd_recipient_restrictions."},
	{"smtpd_recipient_restrictions", "Optional restrictions that the Postfix SMTP server applies in the context of a client RCPT TO command, after smtpd_relay_restrictions."},
	{"smtpd_data_restrictions", "Optional access restrictions that the Postfix SMTP server applies in the context of the SMTP DATA command."},
	{"smtpd_end_of_data_restrictions", "Optional access restrictions that the Postfix SMTP server applies in the context of the SMTP END-OF-DATA command."},
}

// Sections returns a copy of the supported restriction lists.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// IsSupportedSection reports whether name is in the catalogue.
func IsSupportedSection(name string) bool {
	for _, s := range sections {
		if s.Name == name {
			return true
		}
	}
	return false
}
