// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves client IPs to ISO country codes for the security
// monitor, backed by a MaxMind GeoLite2-Country database.
package geoip

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// CountryLocal is reported for private and loopback addresses.
const CountryLocal = "LOCAL"

var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Resolver looks up countries. The zero database path disables lookups;
// LookupCountry then only classifies local addresses.
type Resolver struct {
	mu      sync.RWMutex
	db      *maxminddb.Reader
	path    string
	modTime time.Time
	logger  *slog.Logger
}

// Open creates a Resolver for the database at path. An empty path yields a
// disabled resolver and no error. A missing or unreadable file is returned
// as an error together with a usable, disabled resolver.
func Open(path string, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{path: path, logger: logger}
	if path == "" {
		return r, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r, r.load()
}

// load opens the database unless the file is unchanged. Caller holds mu.
func (r *Resolver) load() error {
	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("geoip database not found: %s", r.path)
		}
		return fmt.Errorf("stat geoip database: %w", err)
	}
	if r.db != nil && info.ModTime().Equal(r.modTime) {
		return nil
	}

	db, err := maxminddb.Open(r.path)
	if err != nil {
		return fmt.Errorf("opening geoip database: %w", err)
	}
	if r.db != nil {
		_ = r.db.Close()
	}
	r.db = db
	r.modTime = info.ModTime()
	r.logger.Info("geoip database loaded", "path", r.path, "modified", r.modTime)
	return nil
}

// Reload reopens the database when the file on disk has changed. The
// scheduler calls it daily.
func (r *Resolver) Reload() error {
	if r.path == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// LookupCountry returns the ISO 3166 alpha-2 code for ip, CountryLocal for
// private and loopback addresses, or "" when unknown.
func (r *Resolver) LookupCountry(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ""
	}
	addr = addr.Unmap()
	if IsLocal(addr) {
		return CountryLocal
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return ""
	}

	var rec countryRecord
	if err := r.db.Lookup(net.IP(addr.AsSlice()), &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Enabled reports whether a database is loaded.
func (r *Resolver) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.db != nil
}

// Close releases the database.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// IsLocal reports whether addr is loopback, link-local or private.
func IsLocal(addr netip.Addr) bool {
	if addr.IsLoopback() || addr.IsUnspecified() {
		return true
	}
	for _, p := range privatePrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

var countryNames = map[string]string{
	CountryLocal: "Local Network",
	"BR":         "Brazil",
	"PT":         "Portugal",
	"AR":         "Argentina",
	"CL":         "Chile",
	"CO":         "Colombia",
	"MX":         "Mexico",
	"US":         "United States",
	"CA":         "Canada",
	"GB":         "United Kingdom",
	"DE":         "Germany",
	"FR":         "France",
	"ES":         "Spain",
	"IT":         "Italy",
	"NL":         "Netherlands",
	"RU":         "Russia",
	"CN":         "China",
	"JP":         "Japan",
	"KR":         "South Korea",
	"IN":         "India",
}

// CountryName returns a display name for code, the code itself when it is
// not in the table, or "Unknown" for an empty code.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	if code == "" {
		return "Unknown"
	}
	return code
}
