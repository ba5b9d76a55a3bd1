// Package domain contains the core model for suitemap.
//
// The domain is transport- and persistence-agnostic: it does not depend on SOAP/XML
// encoding, net/http, YAML parsing, or the filesystem. Infra/adapters map into/from
// these types.
package domain
