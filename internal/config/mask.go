// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"net/url"
)

const redacted = "REDACTED"

// Masked returns a copy of cfg safe to print: passwords are replaced and
// DSN credentials are stripped.
func (c AppConfig) Masked() AppConfig {
	out := c
	if out.Cache.RedisPassword != "" {
		out.Cache.RedisPassword = redacted
	}
	out.Store.DSN = MaskURL(out.Store.DSN)
	return out
}

// MaskURL hides the password of a URL-form DSN. Other forms are redacted
// entirely when non-empty.
func MaskURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return redacted
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), redacted)
		}
	}
	return u.String()
}
