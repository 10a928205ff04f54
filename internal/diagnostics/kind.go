package diagnostics

// Kind enumerates every user-visible error kind named by spec §4 and §7.
// Grounded on funxy's diagnostics.ErrXNNN constants (diagnostics.ErrP006,
// diagnostics.ErrR001, ...), generalized from funxy's parser/runtime split
// to viskum's four-pass split.
type Kind int

const (
	// Lexical / syntactic
	ErrUnexpectedToken Kind = iota
	ErrUnterminatedLiteral

	// Pre-resolution
	ErrDuplicateTopLevelSymbol
	ErrDuplicateMain
	ErrShadowReservedName

	// Resolution
	ErrUndefinedLookup
	ErrNotAPackageMember
	ErrRejectedPointerInRestrictedItem

	// Type checking
	ErrInvalidStruct
	ErrUndefinedStructField
	ErrMismatchedFieldTypes
	ErrMismatchedReturnTypes
	ErrReturnOutsideFn
	ErrBreakOutsideLoop
	ErrBreakTypeError
	ErrExpectedBoolExpr
	ErrBinaryExprTypeError
	ErrInvalidTuple
	ErrTupleAccessOutOfBounds
	ErrAssignmentToImmutable
	ErrNotCallable
	ErrMissingArg

	// Code generation (internal invariant breaks; never user-facing)
	ErrInternal
)

var names = map[Kind]string{
	ErrUnexpectedToken:                 "UnexpectedToken",
	ErrUnterminatedLiteral:             "UnterminatedLiteral",
	ErrDuplicateTopLevelSymbol:         "DuplicateTopLevelSymbol",
	ErrDuplicateMain:                   "DuplicateMain",
	ErrShadowReservedName:              "ShadowReservedName",
	ErrUndefinedLookup:                 "UndefinedLookup",
	ErrNotAPackageMember:               "NotAPackageMember",
	ErrRejectedPointerInRestrictedItem: "RejectedPointerInRestrictedItem",
	ErrInvalidStruct:                   "InvalidStruct",
	ErrUndefinedStructField:            "UndefinedStructField",
	ErrMismatchedFieldTypes:            "MismatchedFieldTypes",
	ErrMismatchedReturnTypes:           "MismatchedReturnTypes",
	ErrReturnOutsideFn:                 "ReturnOutsideFn",
	ErrBreakOutsideLoop:                "BreakOutsideLoop",
	ErrBreakTypeError:                  "BreakTypeError",
	ErrExpectedBoolExpr:                "ExpectedBoolExpr",
	ErrBinaryExprTypeError:             "BinaryExprTypeError",
	ErrInvalidTuple:                    "InvalidTuple",
	ErrTupleAccessOutOfBounds:          "TupleAccessOutOfBounds",
	ErrAssignmentToImmutable:           "AssignmentToImmutable",
	ErrNotCallable:                     "NotCallable",
	ErrMissingArg:                      "MissingArg",
	ErrInternal:                        "Internal",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "Unknown"
}

// Severity distinguishes whether a Diagnostic halts the pipeline before the
// next pass, or is recorded and the pass continues (spec §7).
type Severity int

const (
	Fatal Severity = iota
	NoImpact
)

// severityOf returns the default Severity for a Kind. Every semantic-pass
// Kind is Fatal: the driver does not proceed past a pass with any errors
// recorded, matching spec §7 ("the driver exits if any Fatal has been
// recorded"). NoImpact is reserved for pass-internal recovery that the
// passes themselves may choose to downgrade into (see Bag.Add).
func severityOf(k Kind) Severity {
	return Fatal
}
