package r3_identifiers

import (
	"ngc-lower/packages/compiler/output"
)

// CORE is the module every instruction is imported from
const CORE = "@angular/core"

func core(name string) *output.ExternalReference {
	return &output.ExternalReference{Name: name, ModuleName: CORE}
}

// Instructions
var (
	NamespaceHTML   = core("ɵɵnamespaceHTML")
	NamespaceMathML = core("ɵɵnamespaceMathML")
	NamespaceSVG    = core("ɵɵnamespaceSVG")

	Element      = core("ɵɵelement")
	ElementStart = core("ɵɵelementStart")
	ElementEnd   = core("ɵɵelementEnd")

	ElementContainerStart = core("ɵɵelementContainerStart")
	ElementContainerEnd   = core("ɵɵelementContainerEnd")

	ElementProperty  = core("ɵɵelementProperty")
	ElementAttribute = core("ɵɵelementAttribute")
	ElementClassProp = core("ɵɵelementClassProp")
	ElementStyleProp = core("ɵɵelementStyleProp")

	Container = core("ɵɵcontainer")

	Text        = core("ɵɵtext")
	TextBinding = core("ɵɵtextBinding")

	Bind = core("ɵɵbind")

	Interpolation1 = core("ɵɵinterpolation1")
	Interpolation2 = core("ɵɵinterpolation2")
	Interpolation3 = core("ɵɵinterpolation3")
	Interpolation4 = core("ɵɵinterpolation4")
	Interpolation5 = core("ɵɵinterpolation5")
	Interpolation6 = core("ɵɵinterpolation6")
	Interpolation7 = core("ɵɵinterpolation7")
	Interpolation8 = core("ɵɵinterpolation8")
	InterpolationV = core("ɵɵinterpolationV")

	Projection    = core("ɵɵprojection")
	ProjectionDef = core("ɵɵprojectionDef")

	Listener = core("ɵɵlistener")
	Load     = core("ɵɵload")

	Pipe      = core("ɵɵpipe")
	PipeBind1 = core("ɵɵpipeBind1")
	PipeBind2 = core("ɵɵpipeBind2")
	PipeBind3 = core("ɵɵpipeBind3")
	PipeBind4 = core("ɵɵpipeBind4")
	PipeBindV = core("ɵɵpipeBindV")

	PureFunction0 = core("ɵɵpureFunction0")
	PureFunction1 = core("ɵɵpureFunction1")
	PureFunction2 = core("ɵɵpureFunction2")
	PureFunction3 = core("ɵɵpureFunction3")
	PureFunction4 = core("ɵɵpureFunction4")
	PureFunction5 = core("ɵɵpureFunction5")
	PureFunction6 = core("ɵɵpureFunction6")
	PureFunction7 = core("ɵɵpureFunction7")
	PureFunction8 = core("ɵɵpureFunction8")
	PureFunctionV = core("ɵɵpureFunctionV")

	ReserveSlots = core("ɵɵreserveSlots")

	Query        = core("ɵɵquery")
	QueryRefresh = core("ɵɵqueryRefresh")

	ResolveForwardRef = core("resolveForwardRef")
)

// Interpolation returns the instruction for count interpolated values:
// interpolation1..8 for up to 8, interpolationV above.
func Interpolation(count int) *output.ExternalReference {
	switch count {
	case 1:
		return Interpolation1
	case 2:
		return Interpolation2
	case 3:
		return Interpolation3
	case 4:
		return Interpolation4
	case 5:
		return Interpolation5
	case 6:
		return Interpolation6
	case 7:
		return Interpolation7
	case 8:
		return Interpolation8
	}
	return InterpolationV
}

var pureFunctions = []*output.ExternalReference{
	PureFunction0, PureFunction1, PureFunction2, PureFunction3, PureFunction4,
	PureFunction5, PureFunction6, PureFunction7, PureFunction8,
}

// PureFunction returns pureFunction<argCount> for up to 8 arguments, or
// pureFunctionV
func PureFunction(argCount int) *output.ExternalReference {
	if argCount >= 0 && argCount < len(pureFunctions) {
		return pureFunctions[argCount]
	}
	return PureFunctionV
}

var pipeBinds = []*output.ExternalReference{PipeBind1, PipeBind2, PipeBind3, PipeBind4}

// PipeBind returns pipeBind<argCount> for 1 to 4 arguments, or pipeBindV
func PipeBind(argCount int) *output.ExternalReference {
	if argCount >= 1 && argCount <= len(pipeBinds) {
		return pipeBinds[argCount-1]
	}
	return PipeBindV
}
