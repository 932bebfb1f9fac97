package request

import (
	"net"
	"net/http"
	"strings"

	"github.com/jimui/biblioteca/model"
)

type ContextKey int

const (
	ClientIPContextKey ContextKey = iota
	UserIDContextKey
	UserNameContextKey
	UserRoleContextKey
)

func getContextStringValue(r *http.Request, key ContextKey) string {
	if v := r.Context().Value(key); v != nil {
		if value, valid := v.(string); valid {
			return value
		}
	}
	return ""
}

// ClientIP returns the client IP address stored in the context.
func ClientIP(r *http.Request) string {
	return getContextStringValue(r, ClientIPContextKey)
}

// GetUserID returns the authenticated user id stored in the context.
func GetUserID(r *http.Request) string {
	return getContextStringValue(r, UserIDContextKey)
}

// GetUserName returns the authenticated user name stored in the context.
func GetUserName(r *http.Request) string {
	return getContextStringValue(r, UserNameContextKey)
}

// GetUserRole returns the authenticated user role stored in the context.
func GetUserRole(r *http.Request) model.Role {
	if v := r.Context().Value(UserRoleContextKey); v != nil {
		if role, valid := v.(model.Role); valid {
			return role
		}
	}
	return model.RoleUser
}

// FindClientIP resolves the client address from proxy headers, falling
// back to the connection's remote address.
func FindClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		ip := strings.TrimSpace(parts[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
