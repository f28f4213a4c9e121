// Package instagram talks to Instagram's public, unauthenticated surface.
//
// It covers the session handshake (Bootstrap), the fingerprinted HTTP client,
// response classification (Classify) and the parsers that turn profile pages
// and feed API payloads into normalized entities. No credentials are ever
// involved; everything works off the tokens the site hands to any visitor.
package instagram
