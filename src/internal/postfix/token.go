package postfix

import (
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"
)

// DefaultTokenTemplate renders the check_policy_service restriction pointing at a valvula listener.
const DefaultTokenTemplate = "check_policy_service inet:{{host}}:{{port}}"

const (
	TOKEN_TMPL_HOST = "host"
	TOKEN_TMPL_PORT = "port"
)

// RenderToken fills {{host}} and {{port}} in tmpl. IPv6 hosts are
// bracketed, Postfix reads inet:[::1]:3579 but not inet:::1:3579.
func RenderToken(tmpl, host string, port int) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}

	t := fasttemplate.New(tmpl, "{{", "}}")
	return t.ExecuteString(map[string]interface{}{
		TOKEN_TMPL_HOST: inetHost(host),
		TOKEN_TMPL_PORT: strconv.Itoa(port),
	})
}

func inetHost(host string) string {
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		return "[" + host + "]"
	}
	return host
}
