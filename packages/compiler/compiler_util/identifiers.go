package compiler_util

import "ngc-lower/packages/compiler/output"

// CoreModule is the module the default interpolation helpers are imported from
const CoreModule = "@angular/core"

var (
	// InlineInterpolate takes the segment count followed by alternating strings
	// and values, for up to core.InlineInterpolationLimit values.
	InlineInterpolate = &output.ExternalReference{ModuleName: CoreModule, Name: "ɵinlineInterpolate"}

	// Interpolate takes the segment count and one array of strings and values.
	Interpolate = &output.ExternalReference{ModuleName: CoreModule, Name: "ɵinterpolate"}
)
