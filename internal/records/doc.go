// Package records declares the concrete record types mapped by suitemap.
package records
