package core

// RenderFlags are flags passed into template functions to determine which blocks should be executed
type RenderFlags int

const (
	RenderFlagsCreate RenderFlags = 0b01 // Whether to run the creation block
	RenderFlagsUpdate RenderFlags = 0b10 // Whether to run the update block
)

// AttributeMarker is a set of marker values to be used in the attributes arrays
type AttributeMarker int

const (
	AttributeMarkerNamespaceURI AttributeMarker = iota
	AttributeMarkerSelectOnly
)

// InlineInterpolationLimit is the largest number of interpolated expressions that is still
// lowered to a fixed-arity interpolation call.
const InlineInterpolationLimit = 9

// SelectorFlags are the markers of a flattened runtime CSS selector
type SelectorFlags int

const (
	SelectorFlagsNOT       SelectorFlags = 0b0001 // Beginning of a new negative selector
	SelectorFlagsATTRIBUTE SelectorFlags = 0b0010 // Mode for matching attributes
	SelectorFlagsELEMENT   SelectorFlags = 0b0100 // Mode for matching tag names
	SelectorFlagsCLASS     SelectorFlags = 0b1000 // Mode for matching class names
)
