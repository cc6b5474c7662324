package utils

import (
	"net"
	"net/http"
	"strings"
)

// ClientInfo is what the services know about the caller of a request.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// GetClientInfo extracts the caller IP (empty if undetectable) and User-Agent.
func GetClientInfo(r *http.Request) ClientInfo {
	return ClientInfo{
		IPAddress: detectIP(r),
		UserAgent: r.Header.Get("User-Agent"),
	}
}

// IPOrUnknown returns ip, or UnknownIPAddress when ip is empty.
func IPOrUnknown(ip string) string {
	if strings.TrimSpace(ip) == "" {
		return UnknownIPAddress
	}
	return ip
}

// detectIP extracts the best IP address from typical headers or RemoteAddr.
func detectIP(r *http.Request) string {
	forwardedFor := r.Header.Get("X-Forwarded-For")
	if forwardedFor != "" {
		ips := strings.Split(forwardedFor, ",")
		for _, ip := range ips {
			cleanIP := strings.TrimSpace(ip)
			if isValidIP(cleanIP) {
				return cleanIP
			}
		}
	}

	cfConnectingIP := r.Header.Get("CF-Connecting-IP")
	if cfConnectingIP != "" && isValidIP(cfConnectingIP) {
		return cfConnectingIP
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" && isValidIP(realIP) {
		return realIP
	}

	forwarded := r.Header.Get("Forwarded")
	if forwarded != "" {
		parts := strings.Split(forwarded, ";")
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "for=") {
				maybeIP := strings.TrimPrefix(part, "for=")
				maybeIP = strings.Trim(maybeIP, "\"")
				if isValidIP(maybeIP) {
					return maybeIP
				}
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && isValidIP(ip) {
		return ip
	}
	return ""
}

func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}
