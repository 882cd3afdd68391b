// Package valvulaconf reads and writes the valvula daemon configuration
// (/etc/valvula/valvula.conf).
//
// The file is a small XML document. Document is an explicitly owned handle:
// Load parses the file, the accessors change the in-memory tree and Save
// writes it back pretty-printed with a 4 space indent. Nothing is cached
// between handles, so two commands never see each other's unsaved edits.
//
//	<valvula>
//	    <general>
//	        <listen host="127.0.0.1" port="3579">
//	            <run module="mod-ticket"/>
//	        </listen>
//	    </general>
//	    <database>
//	        <config dbname="valvula" user="valvula" password="secret"/>
//	    </database>
//	    <global-settings>
//	        <running user="valvula" group="valvula" enabled="yes"/>
//	    </global-settings>
//	</valvula>
//
// Elements, attributes and comments this package does not know about are
// kept in place.
package valvulaconf
