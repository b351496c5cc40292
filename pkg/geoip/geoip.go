package geoip

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

type GeoIP interface {
	Close() (err error)
	Lookup(ip net.IP) GeoInfo
}

type GeoInfo struct {
	CC        string // ISO-2 country code
	Continent string // EU, AS, NA, OC, AF, SA, AN
}

type Geo struct {
	countryDB *geoip2.Reader // GeoLite2-Country.mmdb
}

func NewGeo(countryPath string) (*Geo, error) {
	cdb, err := geoip2.Open(countryPath)
	if err != nil {
		return nil, err
	}

	return &Geo{countryDB: cdb}, nil
}

func (g *Geo) Close() (err error) {
	if g.countryDB != nil {
		if cErr := g.countryDB.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close geoip db: %v", err, cErr)
		}
	}

	return err
}

// Lookup never fails, an unknown or nil IP yields empty codes.
func (g *Geo) Lookup(ip net.IP) GeoInfo {
	var out GeoInfo
	if ip == nil || g.countryDB == nil {
		return out
	}

	if rec, err := g.countryDB.Country(ip); err == nil && rec != nil {
		out.CC = rec.Country.IsoCode
		out.Continent = rec.Continent.Code
	}

	return out
}
