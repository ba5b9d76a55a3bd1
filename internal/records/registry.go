package records

import "github.com/aalvaropc/suitemap/internal/record"

// Registry returns a registry holding every declared record type.
func Registry() *record.Registry {
	reg, err := record.NewRegistry(
		record.TypeOf[Check](checkSchema),
	)
	if err != nil {
		// Declarations are static; a duplicate is a programming error.
		panic(err)
	}
	return reg
}
