package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid verifica que el dominio del correo exista de verdad:
// primero por registro MX y, si no hay, por resolución A/AAAA. Se usa en el
// registro de cuentas para frenar dominios inventados; no valida el buzón.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}
	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}
